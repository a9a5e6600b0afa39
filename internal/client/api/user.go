package api

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

// UserAPI covers identity: OTP relay, login, registration and the location
// lookups the signup form needs.
type UserAPI interface {
	SendOTP(ctx context.Context, channel models.Channel, identifier string) error
	VerifyOTP(ctx context.Context, channel models.Channel, identifier, code string) error
	Login(ctx context.Context, channel models.Channel, identifier, code string) (*models.AuthResult, error)
	Register(ctx context.Context, r models.Registration) (*models.AuthResult, error)
	Me(ctx context.Context) (*models.User, error)
	States(ctx context.Context) ([]models.State, error)
	Cities(ctx context.Context, stateID string) ([]models.City, error)
}

// identifierBody keys the identifier by channel: {"email": ...} or {"phone": ...}.
func identifierBody(channel models.Channel, identifier string) map[string]string {
	return map[string]string{string(channel): identifier}
}

func (c *Client) SendOTP(ctx context.Context, channel models.Channel, identifier string) error {
	return c.post(ctx, "/api/users/send-"+string(channel)+"-otp", identifierBody(channel, identifier), nil)
}

func (c *Client) VerifyOTP(ctx context.Context, channel models.Channel, identifier, code string) error {
	body := identifierBody(channel, identifier)
	body["otp"] = code
	return c.post(ctx, "/api/users/verify-"+string(channel)+"-otp", body, nil)
}

func (c *Client) Login(ctx context.Context, channel models.Channel, identifier, code string) (*models.AuthResult, error) {
	body := identifierBody(channel, identifier)
	body["otp"] = code

	var res models.AuthResult
	if err := c.post(ctx, "/api/users/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, r models.Registration) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.post(ctx, "/api/users/register", r, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.get(ctx, "/api/users/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) States(ctx context.Context) ([]models.State, error) {
	var states []models.State
	if err := c.get(ctx, "/api/locations/states", &states); err != nil {
		return nil, err
	}
	return states, nil
}

func (c *Client) Cities(ctx context.Context, stateID string) ([]models.City, error) {
	var cities []models.City
	if err := c.get(ctx, "/api/locations/states/"+url.PathEscape(stateID)+"/cities", &cities); err != nil {
		return nil, err
	}
	return cities, nil
}
