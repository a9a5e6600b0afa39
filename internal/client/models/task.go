package models

import (
	"errors"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusAccepted  TaskStatus = "accepted"
	TaskStatusSubmitted TaskStatus = "submitted"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusClosed    TaskStatus = "closed"
)

// Task is a unit of paid sharing work.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Message     string     `json:"message,omitempty"`
	Link        string     `json:"link,omitempty"`
	Reward      Money      `json:"reward"`
	Slots       int        `json:"slots,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
	OwnerID     string     `json:"ownerId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
}

// TaskInput is what an advertiser sends to create or update a task.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message"`
	Link        string `json:"link,omitempty"`
	Reward      Money  `json:"reward"`
	Slots       int    `json:"slots"`
}

var (
	ErrTaskTitleRequired   = errors.New("title is required")
	ErrTaskMessageRequired = errors.New("message is required")
	ErrTaskRewardRequired  = errors.New("reward must be positive")
	ErrTaskSlotsRequired   = errors.New("slots must be positive")
)

func (in TaskInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, ErrTaskTitleRequired)
	}
	if strings.TrimSpace(in.Message) == "" {
		errs = append(errs, ErrTaskMessageRequired)
	}
	if in.Reward <= 0 {
		errs = append(errs, ErrTaskRewardRequired)
	}
	if in.Slots <= 0 {
		errs = append(errs, ErrTaskSlotsRequired)
	}
	return errors.Join(errs...)
}

// ProofResult is the backend's verdict on a submitted screenshot.
type ProofResult struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message,omitempty"`
}
