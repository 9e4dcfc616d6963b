// Package concurrency implements a channel based resource manager for concurrent operations.
package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ResourceManager hands a fixed pool of resources (e.g. private scratch arenas)
// to concurrently running tasks. At most len(resources) tasks run at the same
// time and each of them owns its resource for the duration of the task.
type ResourceManager[T any] struct {
	resources chan T
	group     *errgroup.Group
	ctx       context.Context
}

// NewResourceManager instantiates a new [ResourceManager].
func NewResourceManager[T any](resources []T) *ResourceManager[T] {

	if len(resources) == 0 {
		panic("invalid resources: must contain at least one element")
	}

	ch := make(chan T, len(resources))
	for i := range resources {
		ch <- resources[i]
	}

	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(len(resources))

	return &ResourceManager[T]{
		resources: ch,
		group:     group,
		ctx:       ctx,
	}
}

// Task is a function taking as input a resource that is exclusively
// owned by the task while it runs.
type Task[T any] func(resource T) (err error)

// Run runs a [Task] concurrently. It blocks while all resources are in use.
// Once a task has returned an error, tasks that have not started yet are skipped.
func (r *ResourceManager[T]) Run(f Task[T]) {
	r.group.Go(func() (err error) {
		if r.ctx.Err() != nil {
			return nil
		}
		resource := <-r.resources
		defer func() { r.resources <- resource }()
		return f(resource)
	})
}

// Wait waits until all tasks have finished and returns
// the first encountered error, if any.
func (r *ResourceManager[T]) Wait() (err error) {
	return r.group.Wait()
}
