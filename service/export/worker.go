package export

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var ErrWorkerClosed = errors.New("export: worker closed")

// Job is one queued card export.
type Job struct {
	Card Card
	done chan struct{}
	path string
	err  error
}

// Wait blocks until the job has run and returns the written path.
func (j *Job) Wait() (string, error) {
	<-j.done
	return j.path, j.err
}

func (j *Job) finish(path string, err error) {
	j.path, j.err = path, err
	close(j.done)
}

// Worker runs exports one at a time on a single background goroutine.
type Worker struct {
	exporter Exporter
	log      *logrus.Logger

	mu      sync.Mutex
	closed  bool
	jobs    chan *Job
	pending sync.WaitGroup
	stopped chan struct{}
}

func NewWorker(exporter Exporter, log *logrus.Logger) *Worker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	w := &Worker{
		exporter: exporter,
		log:      log,
		jobs:     make(chan *Job, 16),
		stopped:  make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Worker) run() {
	defer close(w.stopped)
	for job := range w.jobs {
		path, err := w.exporter.Export(context.Background(), job.Card)
		entry := w.log.WithFields(logrus.Fields{
			"module":      "export",
			"document_no": job.Card.DocumentNo,
			"employee_id": job.Card.Employee.ID,
		})
		if err != nil {
			entry.WithError(err).Error("issuance card export failed")
		} else {
			entry.WithField("path", path).Info("issuance card written")
		}
		job.finish(path, err)
		w.pending.Done()
	}
}

// Submit queues card for export. After Close the returned job fails with ErrWorkerClosed.
func (w *Worker) Submit(card Card) *Job {
	job := &Job{Card: card, done: make(chan struct{})}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		job.finish("", ErrWorkerClosed)
		return job
	}
	w.pending.Add(1)
	w.jobs <- job
	return job
}

// Wait blocks until every submitted job has finished.
func (w *Worker) Wait() {
	w.pending.Wait()
}

// Close drains the queue and stops the worker goroutine.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()
	<-w.stopped
}
