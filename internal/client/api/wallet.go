package api

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

type PaymentAPI interface {
	ListMethods(ctx context.Context) ([]models.PaymentMethod, error)
	AddMethod(ctx context.Context, m models.PaymentMethod) (*models.PaymentMethod, error)
	DeleteMethod(ctx context.Context, id string) error
}

type PayoutAPI interface {
	RequestPayout(ctx context.Context, r models.PayoutRequest) (*models.Payout, error)
	Payouts(ctx context.Context) ([]models.Payout, error)
}

type WalletAPI interface {
	Balance(ctx context.Context) (*models.Balance, error)
}

func (c *Client) ListMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var ms []models.PaymentMethod
	if err := c.get(ctx, "/api/payment-methods", &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

func (c *Client) AddMethod(ctx context.Context, m models.PaymentMethod) (*models.PaymentMethod, error) {
	var out models.PaymentMethod
	if err := c.post(ctx, "/api/payment-methods", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMethod(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/payment-methods/"+url.PathEscape(id))
}

func (c *Client) RequestPayout(ctx context.Context, r models.PayoutRequest) (*models.Payout, error) {
	var p models.Payout
	if err := c.post(ctx, "/api/payouts", r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Payouts(ctx context.Context) ([]models.Payout, error) {
	var ps []models.Payout
	if err := c.get(ctx, "/api/payouts", &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// Balance reads the wallet endpoint, which still answers with the legacy
// {"status": 200, "balance": ...} envelope.
func (c *Client) Balance(ctx context.Context) (*models.Balance, error) {
	var b models.Balance
	if err := c.get(ctx, "/api/wallet/balance", &b); err != nil {
		return nil, err
	}
	return &b, nil
}
