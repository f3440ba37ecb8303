// Package fanout runs a heterogeneous batch of fetch tasks concurrently
// and reports every task's result as a value. A failing task never cancels
// or delays its siblings; the caller maps outcomes back to tasks by
// position.
package fanout

import (
	"context"
	"fmt"
	"sync"
)

// Task is one unit of work in a batch.
type Task struct {
	// Name labels the task in logs and outcomes; it carries no semantics.
	Name string
	// Run produces the task's payload or its terminal error.
	Run func(ctx context.Context) (any, error)
}

// Outcome is the settled result of one task: either Value or Err is set.
type Outcome struct {
	Task  string
	Value any
	Err   error
}

// OK reports whether the task succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Gather runs all tasks concurrently and waits for every one to settle.
// The returned slice has exactly len(tasks) outcomes in submission order,
// regardless of completion order. Gather imposes no timeout of its own;
// each task bounds its own work. A panicking task settles as a failure
// rather than taking the process down.
func Gather(ctx context.Context, tasks []Task) []Outcome {
	outcomes := make([]Outcome, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			outcomes[i] = settle(ctx, task)
		}(i, task)
	}
	wg.Wait()

	return outcomes
}

func settle(ctx context.Context, task Task) (out Outcome) {
	out.Task = task.Name
	defer func() {
		if r := recover(); r != nil {
			out.Value = nil
			out.Err = fmt.Errorf("fanout: task %s panicked: %v", task.Name, r)
		}
	}()
	out.Value, out.Err = task.Run(ctx)
	return out
}
