package devapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
)

// minProofSize rejects uploads too small to be a real screenshot.
const minProofSize = 256

// view is the task as seen by one user: status reflects their progress.
func (s *Server) view(acc *account, t *models.Task) models.Task {
	v := *t
	switch {
	case acc.done[t.ID]:
		v.Status = models.TaskStatusCompleted
	case acc.accepted[t.ID]:
		v.Status = models.TaskStatusAccepted
	}
	return v
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	status := models.TaskStatus(c.Query("status"))

	s.store.mu.Lock()
	acc := s.store.accounts[userID(c)]
	out := make([]models.Task, 0, len(s.store.order))
	for _, id := range s.store.order {
		v := s.view(acc, s.store.tasks[id])
		if status != "" && v.Status != status {
			continue
		}
		out = append(out, v)
	}
	s.store.mu.Unlock()

	return ok(c, http.StatusOK, out, "")
}

func (s *Server) getTask(c *fiber.Ctx) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	t, found := s.store.tasks[c.Params("id")]
	if !found {
		return fiber.NewError(http.StatusNotFound, "Task not found")
	}
	return ok(c, http.StatusOK, s.view(s.store.accounts[userID(c)], t), "")
}

func (s *Server) acceptTask(c *fiber.Ctx) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	t, found := s.store.tasks[c.Params("id")]
	if !found {
		return fiber.NewError(http.StatusNotFound, "Task not found")
	}
	acc := s.store.accounts[userID(c)]
	switch {
	case acc.accepted[t.ID]:
		return fiber.NewError(http.StatusConflict, "You have already accepted this task")
	case t.Status != models.TaskStatusOpen || t.Slots <= 0:
		return fiber.NewError(http.StatusBadRequest, "This task is no longer available")
	case t.OwnerID == acc.user.ID:
		return fiber.NewError(http.StatusBadRequest, "You cannot accept your own task")
	}

	acc.accepted[t.ID] = true
	t.Slots--
	if t.Slots == 0 {
		t.Status = models.TaskStatusClosed
	}
	return ok(c, http.StatusOK, s.view(acc, t), "Task accepted")
}

func (s *Server) submitProof(c *fiber.Ctx) error {
	fh, err := c.FormFile("screenshot")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "Please attach a screenshot")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	t, found := s.store.tasks[c.Params("id")]
	if !found {
		return fiber.NewError(http.StatusNotFound, "Task not found")
	}
	acc := s.store.accounts[userID(c)]
	if !acc.accepted[t.ID] {
		return fiber.NewError(http.StatusBadRequest, "Please accept the task first")
	}
	if acc.done[t.ID] {
		return fiber.NewError(http.StatusConflict, "Proof already verified for this task")
	}

	if len(data) < minProofSize || !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return ok(c, http.StatusOK, models.ProofResult{
			Verified: false,
			Message:  "We could not find the shared message in your screenshot",
		}, "")
	}

	acc.done[t.ID] = true
	acc.balance += t.Reward
	acc.earned += t.Reward
	return ok(c, http.StatusOK, models.ProofResult{
		Verified: true,
		Message:  t.Reward.String() + " added to your wallet",
	}, "")
}

func (s *Server) myTasks(c *fiber.Ctx) error {
	uid := userID(c)

	s.store.mu.Lock()
	out := []models.Task{}
	for _, id := range s.store.order {
		if t := s.store.tasks[id]; t.OwnerID == uid {
			out = append(out, *t)
		}
	}
	s.store.mu.Unlock()

	return ok(c, http.StatusOK, out, "")
}

func parseTaskInput(c *fiber.Ctx) (models.TaskInput, error) {
	var in models.TaskInput
	if err := c.BodyParser(&in); err != nil {
		return in, fiber.NewError(http.StatusBadRequest, "Invalid request")
	}
	if err := in.Validate(); err != nil {
		return in, fiber.NewError(http.StatusBadRequest, strings.ReplaceAll(err.Error(), "\n", "; "))
	}
	return in, nil
}

// ownTask must be called with the store locked.
func (s *Server) ownTask(c *fiber.Ctx) (*models.Task, error) {
	t, found := s.store.tasks[c.Params("id")]
	if !found {
		return nil, fiber.NewError(http.StatusNotFound, "Task not found")
	}
	if t.OwnerID != userID(c) {
		return nil, fiber.NewError(http.StatusForbidden, "You can only change your own tasks")
	}
	return t, nil
}

func (s *Server) advertiserOnly(c *fiber.Ctx) error {
	if s.store.accounts[userID(c)].user.Role != models.RoleAdvertiser {
		return fiber.NewError(http.StatusForbidden, "Only advertisers can publish tasks")
	}
	return nil
}

func (s *Server) createTask(c *fiber.Ctx) error {
	in, err := parseTaskInput(c)
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if err := s.advertiserOnly(c); err != nil {
		return err
	}
	t := s.store.addTask(userID(c), in)
	return ok(c, http.StatusCreated, *t, "Task published")
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	in, err := parseTaskInput(c)
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	t, err := s.ownTask(c)
	if err != nil {
		return err
	}
	t.Title = in.Title
	t.Description = in.Description
	t.Message = in.Message
	t.Link = in.Link
	t.Reward = in.Reward
	t.Slots = in.Slots
	if t.Status == models.TaskStatusClosed && t.Slots > 0 {
		t.Status = models.TaskStatusOpen
	}
	return ok(c, http.StatusOK, *t, "Task updated")
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	t, err := s.ownTask(c)
	if err != nil {
		return err
	}
	delete(s.store.tasks, t.ID)
	for i, id := range s.store.order {
		if id == t.ID {
			s.store.order = append(s.store.order[:i], s.store.order[i+1:]...)
			break
		}
	}
	return ok(c, http.StatusOK, nil, "Task deleted")
}
