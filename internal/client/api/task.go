package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"

	"github.com/dmitrijs2005/taskmarket/internal/client/models"
	"github.com/dmitrijs2005/taskmarket/internal/filex"
)

// TaskAPI covers the marketplace (list, accept, submit proof) and the
// advertiser dashboard (own tasks CRUD).
type TaskAPI interface {
	ListTasks(ctx context.Context, status models.TaskStatus) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	AcceptTask(ctx context.Context, id string) (*models.Task, error)
	SubmitProof(ctx context.Context, id string, img *filex.Image) (*models.ProofResult, error)

	MyTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, in models.TaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

const proofFieldName = "screenshot"

func taskPath(id string) string {
	return "/api/tasks/" + url.PathEscape(id)
}

func (c *Client) ListTasks(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	path := "/api/tasks"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}
	var tasks []models.Task
	if err := c.get(ctx, path, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	if err := c.get(ctx, taskPath(id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) AcceptTask(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	if err := c.post(ctx, taskPath(id)+"/accept", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// SubmitProof uploads the screenshot as multipart form field "screenshot".
// A 2xx answer with verified=false is returned as a result, not an error.
func (c *Client) SubmitProof(ctx context.Context, id string, img *filex.Image) (*models.ProofResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, proofFieldName, img.Name))
	h.Set("Content-Type", img.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var res models.ProofResult
	if err := c.postRaw(ctx, taskPath(id)+"/submit", w.FormDataContentType(), &buf, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) MyTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.get(ctx, "/api/advertiser/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	var t models.Task
	if err := c.post(ctx, "/api/advertiser/tasks", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	var t models.Task
	if err := c.put(ctx, "/api/advertiser/tasks/"+url.PathEscape(id), in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/advertiser/tasks/"+url.PathEscape(id))
}
