package devapi

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

type otpRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

func (r otpRequest) identifier(ch models.Channel) string {
	if ch == models.ChannelEmail {
		return strings.TrimSpace(r.Email)
	}
	return strings.TrimSpace(r.Phone)
}

func validIdentifier(ch models.Channel, id string) bool {
	if ch == models.ChannelEmail {
		at := strings.Index(id, "@")
		return at > 0 && strings.Contains(id[at:], ".")
	}
	digits := strings.TrimPrefix(id, "+91")
	if len(digits) != 10 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *Server) sendOTP(ch models.Channel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req otpRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "Invalid request")
		}
		id := req.identifier(ch)
		if !validIdentifier(ch, id) {
			return fiber.NewError(http.StatusBadRequest, "Please enter a valid "+channelLabel(ch))
		}

		s.store.mu.Lock()
		*s.store.otpFor(ch, id) = otpState{sent: true}
		s.store.mu.Unlock()

		s.opts.Logger.Info(c.UserContext(), "otp sent", "channel", string(ch), "code", s.opts.OTPCode)
		return ok(c, http.StatusOK, nil, "OTP sent to your "+channelLabel(ch))
	}
}

func channelLabel(ch models.Channel) string {
	if ch == models.ChannelEmail {
		return "email address"
	}
	return "phone number"
}

// checkOTP must be called with the store locked.
func (s *Server) checkOTP(ch models.Channel, id, code string) error {
	st := s.store.otpFor(ch, id)
	if !st.sent {
		return fiber.NewError(http.StatusBadRequest, "Please request an OTP first")
	}
	if code != s.opts.OTPCode {
		return fiber.NewError(http.StatusBadRequest, "Invalid OTP")
	}
	st.verified = true
	return nil
}

func (s *Server) verifyOTP(ch models.Channel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req otpRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "Invalid request")
		}

		s.store.mu.Lock()
		err := s.checkOTP(ch, req.identifier(ch), req.OTP)
		s.store.mu.Unlock()
		if err != nil {
			return err
		}
		return ok(c, http.StatusOK, nil, "Verified")
	}
}

func (s *Server) authResult(c *fiber.Ctx, status int, u models.User, msg string) error {
	token, err := s.issueToken(u.ID)
	if err != nil {
		return err
	}
	return ok(c, status, models.AuthResult{User: u, Token: token}, msg)
}

func (s *Server) login(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request")
	}
	ch := models.ChannelPhone
	if req.Email != "" {
		ch = models.ChannelEmail
	}
	id := req.identifier(ch)

	s.store.mu.Lock()
	acc := s.store.byIdentifier(ch, id)
	var err error
	if acc == nil {
		err = fiber.NewError(http.StatusNotFound, "No account found. Please sign up first")
	} else {
		err = s.checkOTP(ch, id, req.OTP)
	}
	var u models.User
	if err == nil {
		u = acc.user
		// a code is good for one login
		s.store.dropOTP(ch, id)
	}
	s.store.mu.Unlock()
	if err != nil {
		return err
	}

	return s.authResult(c, http.StatusOK, u, "Login successful")
}

func (s *Server) register(c *fiber.Ctx) error {
	var req models.Registration
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request")
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.DOB == "" || req.StateID == "" || req.CityID == "" {
		return fiber.NewError(http.StatusBadRequest, "All fields are required")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if !s.store.otpFor(models.ChannelPhone, req.Phone).verified {
		return fiber.NewError(http.StatusBadRequest, "Please verify your phone number")
	}
	if s.opts.RequireEmailVerification && !s.store.otpFor(models.ChannelEmail, req.Email).verified {
		return fiber.NewError(http.StatusBadRequest, "Please verify your email address")
	}
	if s.store.byIdentifier(models.ChannelEmail, req.Email) != nil {
		return fiber.NewError(http.StatusConflict, "Email is already registered")
	}
	if s.store.byIdentifier(models.ChannelPhone, req.Phone) != nil {
		return fiber.NewError(http.StatusConflict, "Phone number is already registered")
	}
	if !s.store.cityValid(req.StateID, req.CityID) {
		return fiber.NewError(http.StatusBadRequest, "Please choose a valid city")
	}

	var referrer *account
	if req.ReferralCode != "" {
		if referrer = s.store.byReferral(req.ReferralCode); referrer == nil {
			return fiber.NewError(http.StatusBadRequest, "Invalid referral code")
		}
	}

	acc := s.store.addAccount(models.User{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		DOB:           req.DOB,
		StateID:       req.StateID,
		CityID:        req.CityID,
		EmailVerified: s.store.otpFor(models.ChannelEmail, req.Email).verified,
		PhoneVerified: true,
	})
	if referrer != nil {
		referrer.balance += s.opts.ReferralBonus
		referrer.earned += s.opts.ReferralBonus
	}

	return s.authResult(c, http.StatusCreated, acc.user, "Registration successful")
}

func (s *Server) me(c *fiber.Ctx) error {
	s.store.mu.Lock()
	u := s.store.accounts[userID(c)].user
	s.store.mu.Unlock()
	return ok(c, http.StatusOK, u, "")
}

func (s *Server) listStates(c *fiber.Ctx) error {
	return ok(c, http.StatusOK, s.store.states, "")
}

func (s *Server) listCities(c *fiber.Ctx) error {
	cities, found := s.store.cities[c.Params("id")]
	if !found {
		return fiber.NewError(http.StatusNotFound, "Unknown state")
	}
	return ok(c, http.StatusOK, cities, "")
}
