package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

type PaymentMethodType string

const (
	PaymentMethodUPI  PaymentMethodType = "upi"
	PaymentMethodBank PaymentMethodType = "bank"
)

// PaymentMethod is a payout destination.
type PaymentMethod struct {
	ID            string            `json:"id,omitempty"`
	Type          PaymentMethodType `json:"type"`
	UPIID         string            `json:"upiId,omitempty"`
	AccountNumber string            `json:"accountNumber,omitempty"`
	IFSC          string            `json:"ifsc,omitempty"`
	HolderName    string            `json:"holderName,omitempty"`
}

var (
	ErrUnknownMethodType = errors.New("payment method must be upi or bank")
	ErrInvalidUPI        = errors.New("invalid UPI id")
	ErrInvalidAccount    = errors.New("invalid bank account number")
	ErrInvalidIFSC       = errors.New("invalid IFSC code")
	ErrHolderRequired    = errors.New("account holder name is required")
)

var (
	upiRe     = regexp.MustCompile(`^[a-zA-Z0-9._-]{2,256}@[a-zA-Z]{2,64}$`)
	accountRe = regexp.MustCompile(`^\d{9,18}$`)
	ifscRe    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// Validate performs the shape checks a form would; the backend stays the
// authority on whether the account exists.
func (p PaymentMethod) Validate() error {
	switch p.Type {
	case PaymentMethodUPI:
		if !upiRe.MatchString(p.UPIID) {
			return ErrInvalidUPI
		}
	case PaymentMethodBank:
		if !accountRe.MatchString(p.AccountNumber) {
			return ErrInvalidAccount
		}
		if !ifscRe.MatchString(strings.ToUpper(p.IFSC)) {
			return ErrInvalidIFSC
		}
		if strings.TrimSpace(p.HolderName) == "" {
			return ErrHolderRequired
		}
	default:
		return ErrUnknownMethodType
	}
	return nil
}

// Label is a masked one-line description.
func (p PaymentMethod) Label() string {
	if p.Type == PaymentMethodUPI {
		return "UPI " + p.UPIID
	}
	acc := p.AccountNumber
	if len(acc) > 4 {
		acc = strings.Repeat("*", len(acc)-4) + acc[len(acc)-4:]
	}
	return "Bank " + acc + " (" + strings.ToUpper(p.IFSC) + ")"
}

type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutProcessed PayoutStatus = "processed"
	PayoutFailed    PayoutStatus = "failed"
)

type PayoutRequest struct {
	Amount          Money  `json:"amount"`
	PaymentMethodID string `json:"paymentMethodId"`
}

type Payout struct {
	ID              string       `json:"id"`
	Amount          Money        `json:"amount"`
	Status          PayoutStatus `json:"status"`
	PaymentMethodID string       `json:"paymentMethodId,omitempty"`
	CreatedAt       time.Time    `json:"createdAt,omitempty"`
}

// Balance is the wallet summary.
type Balance struct {
	Available Money `json:"balance"`
	Pending   Money `json:"pending,omitempty"`
	Earned    Money `json:"totalEarned,omitempty"`
}
