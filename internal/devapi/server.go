// Package devapi is an in-memory stand-in for the marketplace backend. It
// implements every endpoint the client calls, with one fixed OTP code and no
// persistence, so the client can be run and tested without the real service.
package devapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/common"
	"github.com/dmitrijs2005/taskmarket/internal/devapi/auth"
	"github.com/dmitrijs2005/taskmarket/internal/logging"
)

const localsUserID = "user_id"

type Options struct {
	OTPCode                  string
	Secret                   []byte
	TokenTTL                 time.Duration
	MinWithdrawal            models.Money
	ReferralBonus            models.Money
	RequireEmailVerification bool
	Logger                   logging.Logger
}

func (o *Options) defaults() {
	if o.OTPCode == "" {
		o.OTPCode = "123456"
	}
	if len(o.Secret) == 0 {
		o.Secret = []byte(uuid.NewString())
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 24 * time.Hour
	}
	if o.MinWithdrawal <= 0 {
		o.MinWithdrawal = models.Rupees(500)
	}
	if o.ReferralBonus <= 0 {
		o.ReferralBonus = models.Rupees(50)
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
}

// Server wraps the Fiber application and the in-memory state.
type Server struct {
	app   *fiber.App
	opts  Options
	store *store
}

func New(opts Options) *Server {
	opts.defaults()
	s := &Server{opts: opts, store: newStore()}

	s.app = fiber.New(fiber.Config{
		AppName:               "taskmarket-devapi",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             12 << 20,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.routes()
	return s
}

// App exposes the Fiber app, e.g. for app.Test in tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Serve accepts connections on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Use(s.requestID)

	api := s.app.Group("/api")

	users := api.Group("/users")
	users.Post("/send-email-otp", s.sendOTP(models.ChannelEmail))
	users.Post("/send-phone-otp", s.sendOTP(models.ChannelPhone))
	users.Post("/verify-email-otp", s.verifyOTP(models.ChannelEmail))
	users.Post("/verify-phone-otp", s.verifyOTP(models.ChannelPhone))
	users.Post("/login", s.login)
	users.Post("/register", s.register)
	users.Get("/me", s.requireAuth, s.me)

	api.Get("/locations/states", s.listStates)
	api.Get("/locations/states/:id/cities", s.listCities)

	api.Get("/tasks", s.requireAuth, s.listTasks)
	api.Get("/tasks/:id", s.requireAuth, s.getTask)
	api.Post("/tasks/:id/accept", s.requireAuth, s.acceptTask)
	api.Post("/tasks/:id/submit", s.requireAuth, s.submitProof)

	adv := api.Group("/advertiser", s.requireAuth)
	adv.Get("/tasks", s.myTasks)
	adv.Post("/tasks", s.createTask)
	adv.Put("/tasks/:id", s.updateTask)
	adv.Delete("/tasks/:id", s.deleteTask)

	api.Get("/payment-methods", s.requireAuth, s.listMethods)
	api.Post("/payment-methods", s.requireAuth, s.addMethod)
	api.Delete("/payment-methods/:id", s.requireAuth, s.deleteMethod)

	api.Get("/payouts", s.requireAuth, s.listPayouts)
	api.Post("/payouts", s.requireAuth, s.requestPayout)
	api.Get("/wallet/balance", s.requireAuth, s.balance)
}

// ok writes the {success, data, message} envelope.
func ok(c *fiber.Ctx, status int, data any, message string) error {
	body := fiber.Map{"success": true}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	return c.Status(status).JSON(body)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	msg := common.FallbackErrorMessage

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		s.opts.Logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"success": false, "message": msg})
}

func (s *Server) requestID(c *fiber.Ctx) error {
	reqID := c.Get(common.RequestIDHeaderName)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Set(common.RequestIDHeaderName, reqID)
	s.opts.Logger.Debug(c.UserContext(), "request", "method", c.Method(), "path", c.Path(), "request_id", reqID)
	return c.Next()
}

func (s *Server) issueToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.opts.Secret, s.opts.TokenTTL)
}

// requireAuth validates the bearer token and stores the user id in locals.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	authz := c.Get(fiber.HeaderAuthorization)
	if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return fiber.NewError(http.StatusUnauthorized, "Please log in to continue")
	}

	id, err := auth.GetUserIDFromToken(strings.TrimSpace(authz[len("Bearer "):]), s.opts.Secret)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "Session expired, please log in again")
	}

	s.store.mu.Lock()
	_, exists := s.store.accounts[id]
	s.store.mu.Unlock()
	if !exists {
		return fiber.NewError(http.StatusUnauthorized, "Session expired, please log in again")
	}

	c.Locals(localsUserID, id)
	return c.Next()
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsUserID).(string)
	return id
}
