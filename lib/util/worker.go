package util

import (
	"sync"
)

type Job[T any] struct {
	ID      int
	JobItem T
}

// WorkerPool . numWorkers goroutine yang memproses JobQueue, hasil dikumpulkan di results.
// results di-buffer sebesar jobQueueSize, jadi job lebih dari itu harus dibarengi CollectResults.
type WorkerPool[T any, G any] struct {
	numWorkers int
	JobQueue   chan Job[T]
	results    chan G
	wg         sync.WaitGroup
}

type JobFunc[T any, G any] func(job Job[T]) G

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		JobQueue:   make(chan Job[T], jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.JobQueue {
		wp.results <- jobFunc(job)
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

func (wp *WorkerPool[T, G]) AddJob(id int, item T) {
	wp.JobQueue <- Job[T]{ID: id, JobItem: item}
}

// Close. tidak ada job baru lagi.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.JobQueue)
}

// Wait. tunggu semua worker selesai lalu tutup results. panggil setelah Close.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

type indexed[G any] struct {
	id  int
	res G
}

// Run. jalankan jobFunc untuk semua items dengan numWorkers worker, return hasil urut sesuai items.
func Run[T any, G any](numWorkers int, items []T, jobFunc func(item T) G) []G {
	wp := NewWorkerPool[T, indexed[G]](numWorkers, len(items))
	wp.Start(func(job Job[T]) indexed[G] {
		return indexed[G]{id: job.ID, res: jobFunc(job.JobItem)}
	})
	for i, item := range items {
		wp.AddJob(i, item)
	}
	wp.Close()
	wp.Wait()

	out := make([]G, len(items))
	for r := range wp.CollectResults() {
		out[r.id] = r.res
	}
	return out
}
