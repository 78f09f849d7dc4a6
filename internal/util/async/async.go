package async

import (
	"context"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Result is the outcome of one task.
type Result struct {
	Name string
	Err  error
}

// RunParallel executes all tasks concurrently and waits for every one to
// complete. If any task fails, the first error observed is returned.
func RunParallel(ctx context.Context, tasks []Task) error {
	var firstErr error
	for _, res := range RunParallelCollect(ctx, tasks) {
		if res.Err != nil {
			firstErr = fmt.Errorf("%s: %w", res.Name, res.Err)
			break
		}
	}
	return firstErr
}

// RunParallelCollect executes all tasks concurrently and returns one Result
// per task, in completion order. Callers that need per-task outcomes (e.g.
// a health report per node) use this instead of RunParallel.
func RunParallelCollect(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	resultChan := make(chan Result, len(tasks))
	for _, task := range tasks {
		task := task
		go func() {
			resultChan <- Result{Name: task.Name, Err: task.Func(ctx)}
		}()
	}

	results := make([]Result, 0, len(tasks))
	for i := 0; i < len(tasks); i++ {
		results = append(results, <-resultChan)
	}
	return results
}
