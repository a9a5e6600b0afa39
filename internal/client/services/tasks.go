package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskmarket/internal/client/api"
	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/filex"
)

// ErrVerificationFailed is returned when the backend rejected a proof
// screenshot. The task stays accepted and the user may submit again.
var ErrVerificationFailed = errors.New("proof verification failed")

type TaskService interface {
	List(ctx context.Context, status models.TaskStatus) ([]models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	Accept(ctx context.Context, id string) (*models.Task, error)
	SubmitProof(ctx context.Context, id, screenshotPath string) (*models.ProofResult, error)

	Mine(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, in models.TaskInput) (*models.Task, error)
	Update(ctx context.Context, id string, in models.TaskInput) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	tasks api.TaskAPI
}

func NewTaskService(tasks api.TaskAPI) TaskService {
	return &taskService{tasks: tasks}
}

func (s *taskService) List(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	return s.tasks.ListTasks(ctx, status)
}

func (s *taskService) Get(ctx context.Context, id string) (*models.Task, error) {
	return s.tasks.GetTask(ctx, id)
}

func (s *taskService) Accept(ctx context.Context, id string) (*models.Task, error) {
	return s.tasks.AcceptTask(ctx, id)
}

// SubmitProof uploads the screenshot at screenshotPath. A result with
// Verified=false is returned together with ErrVerificationFailed wrapped
// around the backend's explanation.
func (s *taskService) SubmitProof(ctx context.Context, id, screenshotPath string) (*models.ProofResult, error) {
	img, err := filex.ReadImage(screenshotPath)
	if err != nil {
		return nil, err
	}

	res, err := s.tasks.SubmitProof(ctx, id, img)
	if err != nil {
		return nil, err
	}
	if !res.Verified {
		msg := res.Message
		if msg == "" {
			msg = "screenshot does not match the task"
		}
		return res, fmt.Errorf("%w: %s", ErrVerificationFailed, msg)
	}
	return res, nil
}

func (s *taskService) Mine(ctx context.Context) ([]models.Task, error) {
	return s.tasks.MyTasks(ctx)
}

func (s *taskService) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.tasks.CreateTask(ctx, in)
}

func (s *taskService) Update(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.tasks.UpdateTask(ctx, id, in)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.DeleteTask(ctx, id)
}
