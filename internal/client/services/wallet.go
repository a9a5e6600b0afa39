package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskmarket/internal/client/api"
	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

var (
	ErrBelowMinimum    = errors.New("amount is below the minimum withdrawal")
	ErrNoPaymentMethod = errors.New("choose a payment method")
)

// WalletAPI is the backend surface the wallet service needs.
type WalletAPI interface {
	api.PaymentAPI
	api.PayoutAPI
	api.WalletAPI
}

type WalletService interface {
	Balance(ctx context.Context) (*models.Balance, error)
	Methods(ctx context.Context) ([]models.PaymentMethod, error)
	AddMethod(ctx context.Context, m models.PaymentMethod) (*models.PaymentMethod, error)
	DeleteMethod(ctx context.Context, id string) error
	Withdraw(ctx context.Context, amount models.Money, methodID string) (*models.Payout, error)
	History(ctx context.Context) ([]models.Payout, error)
	MinWithdrawal() models.Money
	CheckAmount(amount models.Money) error
}

type walletService struct {
	api WalletAPI
	min models.Money
}

// NewWalletService builds the service; min is the smallest amount a
// withdrawal may request.
func NewWalletService(a WalletAPI, min models.Money) WalletService {
	return &walletService{api: a, min: min}
}

func (s *walletService) MinWithdrawal() models.Money { return s.min }

func (s *walletService) Balance(ctx context.Context) (*models.Balance, error) {
	return s.api.Balance(ctx)
}

func (s *walletService) Methods(ctx context.Context) ([]models.PaymentMethod, error) {
	return s.api.ListMethods(ctx)
}

func (s *walletService) AddMethod(ctx context.Context, m models.PaymentMethod) (*models.PaymentMethod, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return s.api.AddMethod(ctx, m)
}

func (s *walletService) DeleteMethod(ctx context.Context, id string) error {
	return s.api.DeleteMethod(ctx, id)
}

// CheckAmount rejects non-positive amounts and amounts below the minimum.
func (s *walletService) CheckAmount(amount models.Money) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}
	if amount < s.min {
		return fmt.Errorf("%w of %s", ErrBelowMinimum, s.min)
	}
	return nil
}

// Withdraw checks the amount locally and only then asks for a payout.
func (s *walletService) Withdraw(ctx context.Context, amount models.Money, methodID string) (*models.Payout, error) {
	if err := s.CheckAmount(amount); err != nil {
		return nil, err
	}
	if methodID == "" {
		return nil, ErrNoPaymentMethod
	}
	return s.api.RequestPayout(ctx, models.PayoutRequest{Amount: amount, PaymentMethodID: methodID})
}

func (s *walletService) History(ctx context.Context) ([]models.Payout, error) {
	return s.api.Payouts(ctx)
}
