package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when the requested item does not
// exist.
var ErrNotFound = errors.New("not found")

// ErrQueueEmpty is returned by Pop when no job is waiting.
var ErrQueueEmpty = errors.New("queue is empty")

// QueueRepository defines the interface for a FIFO queue of harvest job ids.
type QueueRepository interface {
	// Push adds a job id to the end of the queue.
	Push(ctx context.Context, jobID string) error
	// Pop removes and returns a job id from the front of the queue.
	Pop(ctx context.Context) (string, error)
	// Size returns the current number of items in the queue.
	Size(ctx context.Context) (int64, error)
}
