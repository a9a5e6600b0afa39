package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

func (a *App) Balance(ctx context.Context) error {
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	b, err := a.walletService.Balance(rctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Available: %s\n", b.Available)
	if b.Pending != 0 {
		fmt.Fprintf(a.out, "Pending:   %s\n", b.Pending)
	}
	if b.Earned != 0 {
		fmt.Fprintf(a.out, "Earned:    %s\n", b.Earned)
	}
	fmt.Fprintf(a.out, "Minimum withdrawal: %s\n", a.walletService.MinWithdrawal())
	return nil
}

func (a *App) listMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	ms, err := a.walletService.Methods(rctx)
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		fmt.Fprintln(a.out, "No payment methods. Add one with 'addmethod'.")
	}
	for i, m := range ms {
		fmt.Fprintf(a.out, "  %d. %s (id %s)\n", i+1, m.Label(), m.ID)
	}
	return ms, nil
}

func (a *App) Methods(ctx context.Context) error {
	_, err := a.listMethods(ctx)
	return err
}

func (a *App) AddMethod(ctx context.Context) error {
	kind, err := a.ask("Method type (upi/bank)", "upi")
	if err != nil {
		return err
	}

	m := models.PaymentMethod{Type: models.PaymentMethodType(strings.ToLower(kind))}
	switch m.Type {
	case models.PaymentMethodUPI:
		if m.UPIID, err = a.ask("UPI ID", ""); err != nil {
			return err
		}
	case models.PaymentMethodBank:
		if m.HolderName, err = a.ask("Account holder name", ""); err != nil {
			return err
		}
		if m.AccountNumber, err = a.ask("Account number", ""); err != nil {
			return err
		}
		if m.IFSC, err = a.ask("IFSC", ""); err != nil {
			return err
		}
		m.IFSC = strings.ToUpper(m.IFSC)
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	saved, err := a.walletService.AddMethod(rctx, m)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s.\n", saved.Label())
	return nil
}

func (a *App) DeleteMethod(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delmethod <id>")
	}
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	if err := a.walletService.DeleteMethod(rctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Removed.")
	return nil
}

// Withdraw requests a payout. The amount is checked against the minimum
// before anything is sent.
func (a *App) Withdraw(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return usageError("withdraw [amount] [method id]")
	}

	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		v, err := a.ask(fmt.Sprintf("Amount (minimum %s)", a.walletService.MinWithdrawal()), "")
		if err != nil {
			return err
		}
		raw = v
	}
	amount, err := models.ParseMoney(raw)
	if err != nil {
		return err
	}
	if err := a.walletService.CheckAmount(amount); err != nil {
		return err
	}

	methodID := ""
	if len(args) == 2 {
		methodID = args[1]
	} else {
		if methodID, err = a.pickMethod(ctx); err != nil {
			return err
		}
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	p, err := a.walletService.Withdraw(rctx, amount, methodID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Withdrawal of %s requested (%s).\n", p.Amount, p.Status)
	return nil
}

// pickMethod lets the user choose among saved methods by number or id.
func (a *App) pickMethod(ctx context.Context) (string, error) {
	ms, err := a.listMethods(ctx)
	if err != nil || len(ms) == 0 {
		return "", err
	}
	if len(ms) == 1 {
		return ms[0].ID, nil
	}
	v, err := a.ask("Pay to", "1")
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(ms) {
		return ms[n-1].ID, nil
	}
	return v, nil
}

func (a *App) Payouts(ctx context.Context) error {
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	ps, err := a.walletService.History(rctx)
	if err != nil {
		return err
	}
	if len(ps) == 0 {
		fmt.Fprintln(a.out, "No withdrawals yet.")
		return nil
	}
	for _, p := range ps {
		when := ""
		if !p.CreatedAt.IsZero() {
			when = p.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(a.out, "%-16s %10s  %-9s %s\n", when, p.Amount, p.Status, p.ID)
	}
	return nil
}
