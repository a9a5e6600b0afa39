package devapi_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskmarket/internal/client/api"
	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/devapi"
	"github.com/dmitrijs2005/taskmarket/internal/filex"
)

func startServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := devapi.New(devapi.Options{})
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return "http://" + ln.Addr().String()
}

func TestClientAgainstDevAPI(t *testing.T) {
	base := startServer(t)

	var token string
	c, err := api.New(base, api.WithTimeout(5*time.Second), api.WithTokenSource(func() string { return token }))
	require.NoError(t, err)

	ctx := context.Background()

	err = c.VerifyOTP(ctx, models.ChannelPhone, "9876543210", "123456")
	require.Error(t, err)
	assert.Equal(t, "Please request an OTP first", api.Message(err))

	for ch, id := range map[models.Channel]string{
		models.ChannelEmail: "asha@example.in",
		models.ChannelPhone: "9876543210",
	} {
		require.NoError(t, c.SendOTP(ctx, ch, id))
		require.NoError(t, c.VerifyOTP(ctx, ch, id, "123456"))
	}

	res, err := c.Register(ctx, models.Registration{
		Name: "Asha", Email: "asha@example.in", Phone: "9876543210",
		DOB: "1995-04-12", StateID: "KA", CityID: "BLR",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "Asha", res.User.Name)

	_, err = c.ListTasks(ctx, "")
	require.ErrorIs(t, err, api.ErrUnauthorized)

	token = res.Token

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, me.ID)

	tasks, err := c.ListTasks(ctx, models.TaskStatusOpen)
	require.NoError(t, err)
	require.NotEmpty(t, tasks)

	_, err = c.AcceptTask(ctx, tasks[0].ID)
	require.NoError(t, err)

	proof, err := c.SubmitProof(ctx, tasks[0].ID, &filex.Image{Name: "bad.png", ContentType: "image/png", Data: []byte("nope")})
	require.NoError(t, err)
	assert.False(t, proof.Verified)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 2048)...)
	proof, err = c.SubmitProof(ctx, tasks[0].ID, &filex.Image{Name: "ok.png", ContentType: "image/png", Data: png})
	require.NoError(t, err)
	assert.True(t, proof.Verified)

	bal, err := c.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks[0].Reward, bal.Available)
	assert.Equal(t, tasks[0].Reward, bal.Earned)

	pm, err := c.AddMethod(ctx, models.PaymentMethod{Type: models.PaymentMethodUPI, UPIID: "asha@okaxis"})
	require.NoError(t, err)

	_, err = c.RequestPayout(ctx, models.PayoutRequest{Amount: models.Rupees(1), PaymentMethodID: pm.ID})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "Minimum withdrawal amount is ₹500.00", apiErr.Message)

	payouts, err := c.Payouts(ctx)
	require.NoError(t, err)
	assert.Empty(t, payouts)
}

func TestClientCancelledContext(t *testing.T) {
	base := startServer(t)
	c, err := api.New(base)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.States(ctx)
	require.Error(t, err)
	assert.Equal(t, "Something went wrong. Please try again.", api.Message(err))
}
