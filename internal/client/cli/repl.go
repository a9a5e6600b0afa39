package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/taskmarket/internal/client/api"
	"github.com/dmitrijs2005/taskmarket/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errCancelled ends an interactive flow without reporting a failure.
var errCancelled = errors.New("cancelled")

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool

	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Referral(ctx context.Context, args []string) error

	Tasks(ctx context.Context, args []string) error
	Task(ctx context.Context, args []string) error
	Accept(ctx context.Context, args []string) error
	Submit(ctx context.Context, args []string) error
	MyTasks(ctx context.Context) error
	NewTask(ctx context.Context) error
	EditTask(ctx context.Context, args []string) error
	DeleteTask(ctx context.Context, args []string) error

	Balance(ctx context.Context) error
	Methods(ctx context.Context) error
	AddMethod(ctx context.Context) error
	DeleteMethod(ctx context.Context, args []string) error
	Withdraw(ctx context.Context, args []string) error
	Payouts(ctx context.Context) error
}

// commands that need a session; everything else works for guests
var protected = map[string]bool{
	"whoami": true, "tasks": true, "task": true, "accept": true, "submit": true,
	"mytasks": true, "newtask": true, "edittask": true, "deltask": true,
	"balance": true, "methods": true, "addmethod": true, "delmethod": true,
	"withdraw": true, "payouts": true,
}

const (
	guestHelp = "Available commands: signup, login, ref <link>, help, exit"
	userHelp  = "Available commands:\n" +
		"  account: whoami, logout, ref <link>\n" +
		"  tasks:   tasks [status], task <id>, accept <id>, submit <id> [screenshot]\n" +
		"  publish: mytasks, newtask, edittask <id>, deltask <id>\n" +
		"  wallet:  balance, methods, addmethod, delmethod <id>, withdraw [amount] [method], payouts\n" +
		"  help, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
//
// Protected commands run only with a session. Without one the user is sent
// through login first, and the command runs if that succeeds. Handler errors
// are printed as a single user-facing message; the loop itself never stops
// on them. It exits on EOF, on "exit"/"quit", or when ctx is cancelled.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("tm (%s)> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if protected[cmd] && !a.isLoggedIn(ctx) {
			printlnFn("Please log in to continue.")
			if err := a.Login(ctx); err != nil {
				report(err)
				continue
			}
			if !a.isLoggedIn(ctx) {
				continue
			}
		}

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "signup", "register":
			report(a.Signup(ctx))
		case "login":
			report(a.Login(ctx))
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.WhoAmI(ctx))
		case "ref":
			report(a.Referral(ctx, args))

		case "tasks":
			report(a.Tasks(ctx, args))
		case "task":
			report(a.Task(ctx, args))
		case "accept":
			report(a.Accept(ctx, args))
		case "submit":
			report(a.Submit(ctx, args))
		case "mytasks":
			report(a.MyTasks(ctx))
		case "newtask":
			report(a.NewTask(ctx))
		case "edittask":
			report(a.EditTask(ctx, args))
		case "deltask":
			report(a.DeleteTask(ctx, args))

		case "balance":
			report(a.Balance(ctx))
		case "methods":
			report(a.Methods(ctx))
		case "addmethod":
			report(a.AddMethod(ctx))
		case "delmethod":
			report(a.DeleteMethod(ctx, args))
		case "withdraw":
			report(a.Withdraw(ctx, args))
		case "payouts":
			report(a.Payouts(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err == nil || errors.Is(err, errCancelled) {
		return
	}
	printlnFn("Error:", userMessage(err))
}

// userMessage turns err into the single line shown to the user.
func userMessage(err error) string {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		return "usage: " + string(usage)
	case errors.Is(err, session.ErrNotLoggedIn):
		return "please log in first"
	default:
		return api.Message(err)
	}
}

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }
