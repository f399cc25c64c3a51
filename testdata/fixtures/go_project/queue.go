package queue

import (
	"fmt"

	q "example.com/project/internal/quota"
)

// Task is one unit of queued work.
type Task struct {
	ID      int
	Payload string
}

// Queue accepts tasks for later processing.
type Queue interface {
	Push(t *Task) error
}

func newTask(payload string) *Task {
	return &Task{Payload: payload}
}

// Submit validates and enqueues a payload.
func (s *Scheduler) Submit(payload string) error {
	if err := q.Check(payload); err != nil {
		return fmt.Errorf("quota: %w", err)
	}
	return s.queue.Push(newTask(payload))
}

// Scheduler routes tasks onto a queue.
type Scheduler struct {
	queue Queue
}
