package devapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

type reply struct {
	Status  int             `json:"-"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	raw     []byte
}

func call(t *testing.T, s *Server, method, path, token string, body any) reply {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return send(t, s, req)
}

func send(t *testing.T, s *Server, req *http.Request) reply {
	t.Helper()

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	r := reply{Status: resp.StatusCode, raw: raw}
	require.NoError(t, json.Unmarshal(raw, &r), string(raw))
	return r
}

func (r reply) into(t *testing.T, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, out), string(r.raw))
}

func verify(t *testing.T, s *Server, ch models.Channel, id string) {
	t.Helper()
	r := call(t, s, http.MethodPost, "/api/users/send-"+string(ch)+"-otp", "", map[string]string{string(ch): id})
	require.Equal(t, http.StatusOK, r.Status, r.Message)
	r = call(t, s, http.MethodPost, "/api/users/verify-"+string(ch)+"-otp", "", map[string]string{string(ch): id, "otp": "123456"})
	require.Equal(t, http.StatusOK, r.Status, r.Message)
}

func signup(t *testing.T, s *Server, email, phone, ref string) models.AuthResult {
	t.Helper()
	verify(t, s, models.ChannelEmail, email)
	verify(t, s, models.ChannelPhone, phone)
	r := call(t, s, http.MethodPost, "/api/users/register", "", models.Registration{
		Name: "Asha", Email: email, Phone: phone, DOB: "1995-04-12",
		StateID: "KA", CityID: "BLR", ReferralCode: ref,
	})
	require.Equal(t, http.StatusCreated, r.Status, r.Message)

	var res models.AuthResult
	r.into(t, &res)
	require.NotEmpty(t, res.Token)
	return res
}

func loginAs(t *testing.T, s *Server, phone string) string {
	t.Helper()
	call(t, s, http.MethodPost, "/api/users/send-phone-otp", "", map[string]string{"phone": phone})
	r := call(t, s, http.MethodPost, "/api/users/login", "", map[string]string{"phone": phone, "otp": "123456"})
	require.Equal(t, http.StatusOK, r.Status, r.Message)
	var res models.AuthResult
	r.into(t, &res)
	return res.Token
}

func TestOTP(t *testing.T) {
	s := New(Options{})

	r := call(t, s, http.MethodPost, "/api/users/verify-phone-otp", "", map[string]string{"phone": "9876543210", "otp": "123456"})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.False(t, r.Success)
	assert.Equal(t, "Please request an OTP first", r.Message)

	r = call(t, s, http.MethodPost, "/api/users/send-phone-otp", "", map[string]string{"phone": "98765"})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, "Please enter a valid phone number", r.Message)

	r = call(t, s, http.MethodPost, "/api/users/send-email-otp", "", map[string]string{"email": "asha@example.in"})
	assert.Equal(t, http.StatusOK, r.Status)
	assert.True(t, r.Success)

	r = call(t, s, http.MethodPost, "/api/users/verify-email-otp", "", map[string]string{"email": "asha@example.in", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, "Invalid OTP", r.Message)
}

func TestRegister(t *testing.T) {
	s := New(Options{})

	t.Run("phone not verified", func(t *testing.T) {
		verify(t, s, models.ChannelEmail, "ravi@example.in")
		r := call(t, s, http.MethodPost, "/api/users/register", "", models.Registration{
			Name: "Ravi", Email: "ravi@example.in", Phone: "9123456780", DOB: "1990-01-01", StateID: "KA", CityID: "BLR",
		})
		assert.Equal(t, http.StatusBadRequest, r.Status)
		assert.Equal(t, "Please verify your phone number", r.Message)
	})

	t.Run("referral bonus", func(t *testing.T) {
		first := signup(t, s, "asha@example.in", "9876543210", "")
		assert.Equal(t, models.RoleUser, first.User.Role)
		assert.True(t, first.User.PhoneVerified)

		signup(t, s, "meena@example.in", "9876500000", first.User.ReferralCode)

		r := call(t, s, http.MethodGet, "/api/wallet/balance", first.Token, nil)
		require.Equal(t, http.StatusOK, r.Status)
		assert.JSONEq(t, `{"status":200,"balance":50.00,"pending":0.00,"totalEarned":50.00}`, string(r.raw))
	})

	t.Run("duplicate", func(t *testing.T) {
		verify(t, s, models.ChannelEmail, "asha@example.in")
		verify(t, s, models.ChannelPhone, "9876543210")
		r := call(t, s, http.MethodPost, "/api/users/register", "", models.Registration{
			Name: "Asha", Email: "asha@example.in", Phone: "9876543210", DOB: "1995-04-12", StateID: "KA", CityID: "BLR",
		})
		assert.Equal(t, http.StatusConflict, r.Status)
	})

	t.Run("bad city", func(t *testing.T) {
		verify(t, s, models.ChannelEmail, "new@example.in")
		verify(t, s, models.ChannelPhone, "9000011111")
		r := call(t, s, http.MethodPost, "/api/users/register", "", models.Registration{
			Name: "New", Email: "new@example.in", Phone: "9000011111", DOB: "2000-02-02", StateID: "KA", CityID: "BOM",
		})
		assert.Equal(t, http.StatusBadRequest, r.Status)
		assert.Equal(t, "Please choose a valid city", r.Message)
	})
}

func TestLogin(t *testing.T) {
	s := New(Options{})

	r := call(t, s, http.MethodPost, "/api/users/login", "", map[string]string{"phone": "9111111111", "otp": "123456"})
	assert.Equal(t, http.StatusNotFound, r.Status)

	token := loginAs(t, s, "9000000001")
	r = call(t, s, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, r.Status)
	var u models.User
	r.into(t, &u)
	assert.Equal(t, models.RoleAdvertiser, u.Role)

	// the code was consumed by the first login
	r = call(t, s, http.MethodPost, "/api/users/login", "", map[string]string{"phone": "9000000001", "otp": "123456"})
	assert.Equal(t, http.StatusBadRequest, r.Status)
}

func TestAuthRequired(t *testing.T) {
	s := New(Options{})

	r := call(t, s, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.Status)

	r = call(t, s, http.MethodGet, "/api/tasks", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, r.Status)
	assert.Equal(t, "Session expired, please log in again", r.Message)
}

func TestLocations(t *testing.T) {
	s := New(Options{})

	var states []models.State
	call(t, s, http.MethodGet, "/api/locations/states", "", nil).into(t, &states)
	assert.Len(t, states, 3)

	var cities []models.City
	call(t, s, http.MethodGet, "/api/locations/states/KL/cities", "", nil).into(t, &cities)
	require.Len(t, cities, 2)
	assert.Equal(t, "Kochi", cities[0].Name)

	r := call(t, s, http.MethodGet, "/api/locations/states/XX/cities", "", nil)
	assert.Equal(t, http.StatusNotFound, r.Status)
}

func screenshot(t *testing.T, s *Server, token, taskID string, data []byte) reply {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("screenshot", "proof.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/"+taskID+"/submit", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return send(t, s, req)
}

func pngBytes(n int) []byte {
	b := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, n)...)
	return b
}

func TestTaskFlow(t *testing.T) {
	s := New(Options{})
	user := signup(t, s, "asha@example.in", "9876543210", "")

	var tasks []models.Task
	call(t, s, http.MethodGet, "/api/tasks", user.Token, nil).into(t, &tasks)
	require.Len(t, tasks, 3)
	id := tasks[0].ID

	r := screenshot(t, s, user.Token, id, pngBytes(1024))
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, "Please accept the task first", r.Message)

	r = call(t, s, http.MethodPost, "/api/tasks/"+id+"/accept", user.Token, nil)
	require.Equal(t, http.StatusOK, r.Status, r.Message)
	var accepted models.Task
	r.into(t, &accepted)
	assert.Equal(t, models.TaskStatusAccepted, accepted.Status)
	assert.Equal(t, 99, accepted.Slots)

	r = call(t, s, http.MethodPost, "/api/tasks/"+id+"/accept", user.Token, nil)
	assert.Equal(t, http.StatusConflict, r.Status)

	var res models.ProofResult
	screenshot(t, s, user.Token, id, []byte("tiny")).into(t, &res)
	assert.False(t, res.Verified)
	assert.NotEmpty(t, res.Message)

	screenshot(t, s, user.Token, id, pngBytes(1024)).into(t, &res)
	assert.True(t, res.Verified)

	call(t, s, http.MethodGet, "/api/tasks?status=completed", user.Token, nil).into(t, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)

	r = call(t, s, http.MethodGet, "/api/wallet/balance", user.Token, nil)
	assert.JSONEq(t, `{"status":200,"balance":5.00,"pending":0.00,"totalEarned":5.00}`, string(r.raw))

	r = call(t, s, http.MethodGet, "/api/tasks/nope", user.Token, nil)
	assert.Equal(t, http.StatusNotFound, r.Status)
}

func TestAdvertiserTasks(t *testing.T) {
	s := New(Options{})
	adv := loginAs(t, s, "9000000001")
	user := signup(t, s, "asha@example.in", "9876543210", "")

	in := models.TaskInput{Title: "Share launch", Message: "We are live!", Reward: models.Rupees(4), Slots: 10}

	r := call(t, s, http.MethodPost, "/api/advertiser/tasks", user.Token, in)
	assert.Equal(t, http.StatusForbidden, r.Status)

	r = call(t, s, http.MethodPost, "/api/advertiser/tasks", adv, models.TaskInput{Title: "x"})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Contains(t, r.Message, "message is required")

	var created models.Task
	r = call(t, s, http.MethodPost, "/api/advertiser/tasks", adv, in)
	require.Equal(t, http.StatusCreated, r.Status, r.Message)
	r.into(t, &created)
	assert.Equal(t, models.TaskStatusOpen, created.Status)

	var mine []models.Task
	call(t, s, http.MethodGet, "/api/advertiser/tasks", adv, nil).into(t, &mine)
	assert.Len(t, mine, 4)

	in.Title = "Share launch today"
	r = call(t, s, http.MethodPut, "/api/advertiser/tasks/"+created.ID, user.Token, in)
	assert.Equal(t, http.StatusForbidden, r.Status)

	var updated models.Task
	call(t, s, http.MethodPut, "/api/advertiser/tasks/"+created.ID, adv, in).into(t, &updated)
	assert.Equal(t, "Share launch today", updated.Title)

	r = call(t, s, http.MethodDelete, "/api/advertiser/tasks/"+created.ID, adv, nil)
	assert.Equal(t, http.StatusOK, r.Status)
	r = call(t, s, http.MethodGet, "/api/tasks/"+created.ID, adv, nil)
	assert.Equal(t, http.StatusNotFound, r.Status)
}

func TestWallet(t *testing.T) {
	s := New(Options{MinWithdrawal: models.Rupees(2)})
	user := signup(t, s, "asha@example.in", "9876543210", "")

	r := call(t, s, http.MethodPost, "/api/payment-methods", user.Token, models.PaymentMethod{Type: models.PaymentMethodUPI, UPIID: "bad"})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, models.ErrInvalidUPI.Error(), r.Message)

	var pm models.PaymentMethod
	r = call(t, s, http.MethodPost, "/api/payment-methods", user.Token, models.PaymentMethod{Type: models.PaymentMethodUPI, UPIID: "asha@okaxis"})
	require.Equal(t, http.StatusCreated, r.Status)
	r.into(t, &pm)
	require.NotEmpty(t, pm.ID)

	r = call(t, s, http.MethodPost, "/api/payouts", user.Token, models.PayoutRequest{Amount: models.Rupees(1), PaymentMethodID: pm.ID})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, "Minimum withdrawal amount is ₹2.00", r.Message)

	r = call(t, s, http.MethodPost, "/api/payouts", user.Token, models.PayoutRequest{Amount: models.Rupees(3), PaymentMethodID: pm.ID})
	assert.Equal(t, "Insufficient balance", r.Message)

	// earn ₹5
	var tasks []models.Task
	call(t, s, http.MethodGet, "/api/tasks", user.Token, nil).into(t, &tasks)
	call(t, s, http.MethodPost, "/api/tasks/"+tasks[0].ID+"/accept", user.Token, nil)
	screenshot(t, s, user.Token, tasks[0].ID, pngBytes(1024))

	r = call(t, s, http.MethodPost, "/api/payouts", user.Token, models.PayoutRequest{Amount: models.Rupees(3), PaymentMethodID: "pm_unknown"})
	assert.Equal(t, "Please choose a valid payment method", r.Message)

	var p models.Payout
	r = call(t, s, http.MethodPost, "/api/payouts", user.Token, models.PayoutRequest{Amount: models.Rupees(3), PaymentMethodID: pm.ID})
	require.Equal(t, http.StatusCreated, r.Status, r.Message)
	r.into(t, &p)
	assert.Equal(t, models.PayoutPending, p.Status)

	var history []models.Payout
	call(t, s, http.MethodGet, "/api/payouts", user.Token, nil).into(t, &history)
	require.Len(t, history, 1)

	r = call(t, s, http.MethodGet, "/api/wallet/balance", user.Token, nil)
	assert.JSONEq(t, `{"status":200,"balance":2.00,"pending":3.00,"totalEarned":5.00}`, string(r.raw))

	r = call(t, s, http.MethodDelete, "/api/payment-methods/"+pm.ID, user.Token, nil)
	assert.Equal(t, http.StatusOK, r.Status)
	r = call(t, s, http.MethodDelete, "/api/payment-methods/"+pm.ID, user.Token, nil)
	assert.Equal(t, http.StatusNotFound, r.Status)
}
