package concurrent

import (
	"context"
	"sync"
)

type JobFunc[T any, G any] func(job T) G

// WorkerPool runs jobFunc over queued jobs on a fixed number of goroutines.
// Jobs must be queued and the queue closed before Wait is called; results arrive in completion order.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job)
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

type indexedJob[T any] struct {
	index int
	job   T
}

type indexedResult[G any] struct {
	index  int
	result G
}

// MapOrdered applies fn to every job on numWorkers goroutines and returns the results in job order.
// Jobs not started when ctx is done get onCancel's result instead of running fn.
func MapOrdered[T any, G any](ctx context.Context, numWorkers int, jobs []T, fn func(ctx context.Context, job T) G,
	onCancel func(job T, err error) G) []G {
	wp := NewWorkerPool[indexedJob[T], indexedResult[G]](numWorkers, len(jobs))
	for i, job := range jobs {
		wp.AddJob(indexedJob[T]{index: i, job: job})
	}
	wp.Close()

	wp.Start(func(j indexedJob[T]) indexedResult[G] {
		if err := ctx.Err(); err != nil {
			return indexedResult[G]{index: j.index, result: onCancel(j.job, err)}
		}
		return indexedResult[G]{index: j.index, result: fn(ctx, j.job)}
	})
	wp.Wait()

	results := make([]G, len(jobs))
	for r := range wp.CollectResults() {
		results[r.index] = r.result
	}
	return results
}
