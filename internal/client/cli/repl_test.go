package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskmarket/internal/client/api"
	"github.com/dmitrijs2005/taskmarket/internal/client/session"
)

type fakeExec struct {
	loggedIn bool
	loginOK  bool
	failWith error

	calls []string
	args  [][]string
}

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.failWith
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeExec) Signup(context.Context) error    { return f.rec("signup", nil) }
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.args = append(f.args, nil)
	f.loggedIn = f.loginOK
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.rec("logout", nil)
}
func (f *fakeExec) WhoAmI(context.Context) error                 { return f.rec("whoami", nil) }
func (f *fakeExec) Referral(_ context.Context, a []string) error { return f.rec("ref", a) }
func (f *fakeExec) Tasks(_ context.Context, a []string) error    { return f.rec("tasks", a) }
func (f *fakeExec) Task(_ context.Context, a []string) error     { return f.rec("task", a) }
func (f *fakeExec) Accept(_ context.Context, a []string) error   { return f.rec("accept", a) }
func (f *fakeExec) Submit(_ context.Context, a []string) error   { return f.rec("submit", a) }
func (f *fakeExec) MyTasks(context.Context) error                { return f.rec("mytasks", nil) }
func (f *fakeExec) NewTask(context.Context) error                { return f.rec("newtask", nil) }
func (f *fakeExec) EditTask(_ context.Context, a []string) error { return f.rec("edittask", a) }
func (f *fakeExec) DeleteTask(_ context.Context, a []string) error {
	return f.rec("deltask", a)
}
func (f *fakeExec) Balance(context.Context) error   { return f.rec("balance", nil) }
func (f *fakeExec) Methods(context.Context) error   { return f.rec("methods", nil) }
func (f *fakeExec) AddMethod(context.Context) error { return f.rec("addmethod", nil) }
func (f *fakeExec) DeleteMethod(_ context.Context, a []string) error {
	return f.rec("delmethod", a)
}
func (f *fakeExec) Withdraw(_ context.Context, a []string) error { return f.rec("withdraw", a) }
func (f *fakeExec) Payouts(context.Context) error                { return f.rec("payouts", nil) }

// capturePrint swaps printlnFn for the duration of the test.
func capturePrint(t *testing.T) *strings.Builder {
	t.Helper()
	var sb strings.Builder
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&sb, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &sb
}

func lines(ls ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(ls, "\n") + "\n"))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := capturePrint(t)
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "asha" }, lines(
		"help",
		"tasks open",
		"task t1",
		"accept t1",
		"submit t1 /tmp/p.png",
		"mytasks", "newtask", "edittask t2", "deltask t2",
		"balance", "methods", "addmethod", "delmethod m1", "withdraw 600 m1", "payouts",
		"whoami", "ref ABC",
		"foobar",
		"logout",
		"exit",
		"tasks",
	))

	assert.Equal(t, []string{
		"tasks", "task", "accept", "submit",
		"mytasks", "newtask", "edittask", "deltask",
		"balance", "methods", "addmethod", "delmethod", "withdraw", "payouts",
		"whoami", "ref", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"t1", "/tmp/p.png"}, exec.args[3])
	assert.Equal(t, []string{"600", "m1"}, exec.args[12])

	s := out.String()
	assert.Contains(t, s, "tm (asha)> ")
	assert.Contains(t, s, "wallet:")
	assert.Contains(t, s, "Unknown command: foobar")
	assert.Contains(t, s, "Bye!")
}

func TestRunREPL_ProtectedCommandGoesToLogin(t *testing.T) {
	capturePrint(t)

	t.Run("login succeeds", func(t *testing.T) {
		exec := &fakeExec{loginOK: true}
		runREPL(context.Background(), exec, func() string { return "guest" }, lines("balance"))
		assert.Equal(t, []string{"login", "balance"}, exec.calls)
	})

	t.Run("login fails", func(t *testing.T) {
		exec := &fakeExec{loginOK: false}
		runREPL(context.Background(), exec, func() string { return "guest" }, lines("balance", "withdraw 100"))
		assert.Equal(t, []string{"login", "login"}, exec.calls)
	})

	t.Run("guest commands need no session", func(t *testing.T) {
		exec := &fakeExec{}
		runREPL(context.Background(), exec, func() string { return "guest" }, lines("help", "signup", "ref X1Y"))
		assert.Equal(t, []string{"signup", "ref"}, exec.calls)
	})
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	out := capturePrint(t)
	exec := &fakeExec{loggedIn: true, failWith: &api.Error{StatusCode: 400, Message: "Insufficient balance"}}

	runREPL(context.Background(), exec, func() string { return "s" }, lines("withdraw 900", "balance"))

	assert.Equal(t, []string{"withdraw", "balance"}, exec.calls)
	assert.Contains(t, out.String(), "Error: Insufficient balance")
}

func TestRunREPL_StopsWhenContextCancelled(t *testing.T) {
	capturePrint(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{loggedIn: true}
	runREPL(ctx, exec, func() string { return "s" }, lines("balance"))
	assert.Empty(t, exec.calls)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{usageError("task <id>"), "usage: task <id>"},
		{session.ErrNotLoggedIn, "please log in first"},
		{&api.Error{StatusCode: 422, Message: "Task is full"}, "Task is full"},
		{fmt.Errorf("x: %w", api.ErrUnavailable), "Something went wrong. Please try again."},
		{errors.New("amount is below the minimum withdrawal"), "amount is below the minimum withdrawal"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, userMessage(tt.err))
	}
}

func TestReport_IgnoresCancel(t *testing.T) {
	out := capturePrint(t)
	report(errCancelled)
	report(nil)
	assert.Empty(t, out.String())
}
