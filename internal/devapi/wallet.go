package devapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

func (s *Server) listMethods(c *fiber.Ctx) error {
	s.store.mu.Lock()
	out := append([]models.PaymentMethod{}, s.store.accounts[userID(c)].methods...)
	s.store.mu.Unlock()
	return ok(c, http.StatusOK, out, "")
}

func (s *Server) addMethod(c *fiber.Ctx) error {
	var m models.PaymentMethod
	if err := c.BodyParser(&m); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request")
	}
	if err := m.Validate(); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	m.ID = shortID("pm_")
	m.IFSC = strings.ToUpper(m.IFSC)

	s.store.mu.Lock()
	acc := s.store.accounts[userID(c)]
	acc.methods = append(acc.methods, m)
	s.store.mu.Unlock()

	return ok(c, http.StatusCreated, m, "Payment method added")
}

func (s *Server) deleteMethod(c *fiber.Ctx) error {
	id := c.Params("id")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	acc := s.store.accounts[userID(c)]
	for i, m := range acc.methods {
		if m.ID == id {
			acc.methods = append(acc.methods[:i], acc.methods[i+1:]...)
			return ok(c, http.StatusOK, nil, "Payment method removed")
		}
	}
	return fiber.NewError(http.StatusNotFound, "Payment method not found")
}

func (s *Server) requestPayout(c *fiber.Ctx) error {
	var req models.PayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request")
	}
	if req.Amount < s.opts.MinWithdrawal {
		return fiber.NewError(http.StatusBadRequest, "Minimum withdrawal amount is "+s.opts.MinWithdrawal.String())
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	acc := s.store.accounts[userID(c)]
	known := false
	for _, m := range acc.methods {
		if m.ID == req.PaymentMethodID {
			known = true
			break
		}
	}
	if !known {
		return fiber.NewError(http.StatusBadRequest, "Please choose a valid payment method")
	}
	if req.Amount > acc.balance {
		return fiber.NewError(http.StatusBadRequest, "Insufficient balance")
	}

	acc.balance -= req.Amount
	acc.pending += req.Amount
	p := models.Payout{
		ID:              shortID("po_"),
		Amount:          req.Amount,
		Status:          models.PayoutPending,
		PaymentMethodID: req.PaymentMethodID,
		CreatedAt:       time.Now().UTC(),
	}
	acc.payouts = append(acc.payouts, p)
	return ok(c, http.StatusCreated, p, "Withdrawal requested")
}

func (s *Server) listPayouts(c *fiber.Ctx) error {
	s.store.mu.Lock()
	src := s.store.accounts[userID(c)].payouts
	out := make([]models.Payout, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	s.store.mu.Unlock()
	return ok(c, http.StatusOK, out, "")
}

// balance answers with the older {"status": 200, ...} envelope.
func (s *Server) balance(c *fiber.Ctx) error {
	s.store.mu.Lock()
	acc := s.store.accounts[userID(c)]
	body := fiber.Map{
		"status":      http.StatusOK,
		"balance":     acc.balance,
		"pending":     acc.pending,
		"totalEarned": acc.earned,
	}
	s.store.mu.Unlock()
	return c.JSON(body)
}
