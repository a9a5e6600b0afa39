package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/client/services"
)

func (a *App) printTasks(tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(a.out, "%-12s %-40s %10s  %-9s", t.ID, t.Title, t.Reward, t.Status)
		if t.Slots > 0 {
			fmt.Fprintf(a.out, " %d slots", t.Slots)
		}
		fmt.Fprintln(a.out)
	}
}

// Tasks lists marketplace tasks, optionally filtered by status.
func (a *App) Tasks(ctx context.Context, args []string) error {
	var status models.TaskStatus
	if len(args) > 0 {
		status = models.TaskStatus(strings.ToLower(args[0]))
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	tasks, err := a.taskService.List(rctx, status)
	if err != nil {
		return err
	}
	a.printTasks(tasks)
	return nil
}

// Task shows one task with the message to share.
func (a *App) Task(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("task <id>")
	}
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	t, err := a.taskService.Get(rctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n  reward: %s\n  status: %s\n", t.Title, t.Reward, t.Status)
	if t.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", t.Description)
	}
	if t.Message != "" {
		fmt.Fprintf(a.out, "\nShare this message:\n%s\n", t.Message)
	}
	if t.Link != "" {
		fmt.Fprintf(a.out, "\nLink: %s\n", t.Link)
	}
	return nil
}

func (a *App) Accept(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("accept <id>")
	}
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	t, err := a.taskService.Accept(rctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Accepted %q. Share it, then run: submit %s <screenshot>\n", t.Title, t.ID)
	return nil
}

// Submit uploads a screenshot as proof. A rejected proof is reported and
// the task stays accepted, so the user can submit again.
func (a *App) Submit(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("submit <id> [screenshot]")
	}
	path := ""
	if len(args) == 2 {
		path = args[1]
	} else {
		p, err := a.ask("Path to screenshot", "")
		if err != nil {
			return err
		}
		path = p
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	res, err := a.taskService.SubmitProof(rctx, args[0], path)
	if errors.Is(err, services.ErrVerificationFailed) {
		msg := err.Error()
		if res != nil && res.Message != "" {
			msg = res.Message
		}
		fmt.Fprintf(a.out, "Verification failed: %s\nYou can submit another screenshot for task %s.\n", msg, args[0])
		return nil
	}
	if err != nil {
		return err
	}

	msg := res.Message
	if msg == "" {
		msg = "Proof verified. Your reward will be credited to your wallet."
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) MyTasks(ctx context.Context) error {
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	tasks, err := a.taskService.Mine(rctx)
	if err != nil {
		return err
	}
	a.printTasks(tasks)
	return nil
}

// promptTaskInput collects task fields, offering cur's values as defaults.
func (a *App) promptTaskInput(cur models.TaskInput) (models.TaskInput, error) {
	in := cur
	var err error

	if in.Title, err = a.ask("Title", cur.Title); err != nil {
		return in, err
	}
	if in.Description, err = a.ask("Description", cur.Description); err != nil {
		return in, err
	}

	msgPrompt := "Message to share"
	if cur.Message != "" {
		msgPrompt += " (empty keeps the current message)"
	}
	msg, err := getMultiline(a.reader, msgPrompt, a.out)
	if err != nil {
		return in, err
	}
	if msg != "" {
		in.Message = msg
	}

	if in.Link, err = a.ask("Link", cur.Link); err != nil {
		return in, err
	}

	reward := ""
	if cur.Reward != 0 {
		reward = cur.Reward.String()
	}
	r, err := a.ask("Reward per share (₹)", reward)
	if err != nil {
		return in, err
	}
	if in.Reward, err = models.ParseMoney(r); err != nil {
		return in, err
	}

	slots := ""
	if cur.Slots != 0 {
		slots = strconv.Itoa(cur.Slots)
	}
	s, err := a.ask("Number of slots", slots)
	if err != nil {
		return in, err
	}
	if in.Slots, err = strconv.Atoi(s); err != nil {
		return in, fmt.Errorf("slots must be a number: %q", s)
	}
	return in, nil
}

func (a *App) NewTask(ctx context.Context) error {
	in, err := a.promptTaskInput(models.TaskInput{})
	if err != nil {
		return err
	}
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	t, err := a.taskService.Create(rctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task %s published.\n", t.ID)
	return nil
}

func (a *App) EditTask(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("edittask <id>")
	}
	rctx, cancel := a.requestCtx(ctx)
	t, err := a.taskService.Get(rctx, args[0])
	cancel()
	if err != nil {
		return err
	}

	in, err := a.promptTaskInput(models.TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Message:     t.Message,
		Link:        t.Link,
		Reward:      t.Reward,
		Slots:       t.Slots,
	})
	if err != nil {
		return err
	}

	rctx, cancel = a.requestCtx(ctx)
	defer cancel()
	if _, err := a.taskService.Update(rctx, t.ID, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task %s updated.\n", t.ID)
	return nil
}

func (a *App) DeleteTask(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("deltask <id>")
	}
	ok, err := a.confirm(fmt.Sprintf("Delete task %s?", args[0]))
	if err != nil || !ok {
		return err
	}
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()
	if err := a.taskService.Delete(rctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) confirm(prompt string) (bool, error) {
	v, err := getSimpleText(a.reader, prompt+" (y/N)", a.out)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(v, "y") || strings.EqualFold(v, "yes"), nil
}
