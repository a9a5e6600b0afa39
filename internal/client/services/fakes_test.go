package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskmarket/internal/client/api"
	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/client/session"
	"github.com/dmitrijs2005/taskmarket/internal/client/storage"
	"github.com/dmitrijs2005/taskmarket/internal/filex"
)

// fakeUsers implements api.UserAPI; unset methods panic via the nil embed.
type fakeUsers struct {
	api.UserAPI

	sendErr   error
	verifyErr error
	loginErr  error
	regErr    error

	sent       []string
	verified   []string
	loggedIn   []string
	registered []models.Registration
}

func (f *fakeUsers) SendOTP(_ context.Context, ch models.Channel, id string) error {
	f.sent = append(f.sent, string(ch)+":"+id)
	return f.sendErr
}

func (f *fakeUsers) VerifyOTP(_ context.Context, ch models.Channel, id, _ string) error {
	f.verified = append(f.verified, string(ch)+":"+id)
	return f.verifyErr
}

func (f *fakeUsers) Login(_ context.Context, ch models.Channel, id, _ string) (*models.AuthResult, error) {
	f.loggedIn = append(f.loggedIn, string(ch)+":"+id)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.AuthResult{User: models.User{ID: "u1", Name: "Asha"}, Token: "tok"}, nil
}

func (f *fakeUsers) Register(_ context.Context, r models.Registration) (*models.AuthResult, error) {
	f.registered = append(f.registered, r)
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.AuthResult{User: models.User{ID: "u2", Name: r.Name}, Token: "tok2"}, nil
}

func (f *fakeUsers) States(context.Context) ([]models.State, error) {
	return []models.State{{ID: "s1", Name: "Kerala"}}, nil
}

func (f *fakeUsers) Cities(_ context.Context, stateID string) ([]models.City, error) {
	return []models.City{{ID: "c1", StateID: stateID, Name: "Kochi"}}, nil
}

type fakeTasks struct {
	api.TaskAPI

	proof     *models.ProofResult
	proofErr  error
	uploaded  *filex.Image
	created   []models.TaskInput
	deletedID string
}

func (f *fakeTasks) SubmitProof(_ context.Context, _ string, img *filex.Image) (*models.ProofResult, error) {
	f.uploaded = img
	return f.proof, f.proofErr
}

func (f *fakeTasks) CreateTask(_ context.Context, in models.TaskInput) (*models.Task, error) {
	f.created = append(f.created, in)
	return &models.Task{ID: "t1", Title: in.Title}, nil
}

func (f *fakeTasks) DeleteTask(_ context.Context, id string) error {
	f.deletedID = id
	return nil
}

type fakeWallet struct {
	WalletAPI

	payoutCalls int
	lastPayout  models.PayoutRequest
	added       []models.PaymentMethod
}

func (f *fakeWallet) RequestPayout(_ context.Context, r models.PayoutRequest) (*models.Payout, error) {
	f.payoutCalls++
	f.lastPayout = r
	return &models.Payout{ID: "p1", Amount: r.Amount, Status: models.PayoutPending}, nil
}

func (f *fakeWallet) AddMethod(_ context.Context, m models.PaymentMethod) (*models.PaymentMethod, error) {
	f.added = append(f.added, m)
	m.ID = "m1"
	return &m, nil
}

func newProvider(t *testing.T) *session.Provider {
	t.Helper()
	db, err := storage.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return session.NewProvider(session.NewSQLiteStore(db), nil)
}
