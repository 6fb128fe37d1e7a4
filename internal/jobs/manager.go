// Package jobs records the stages of a prediction run.
package jobs

import (
	"fmt"
	"sync"
	"time"
)

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Note is a timestamped message attached to a job.
type Note struct {
	At      time.Time
	Message string
}

// Job is one stage of a run, such as training or saving the model.
type Job struct {
	ID    string
	Stage string

	mu       sync.RWMutex
	status   JobStatus
	started  time.Time
	finished time.Time
	err      error
	notes    []Note
}

func (j *Job) Status() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Err is the error the job failed with, if any.
func (j *Job) Err() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

// Elapsed is the run time of the job. A running job reports the time so far.
func (j *Job) Elapsed() time.Duration {
	j.mu.RLock()
	defer j.mu.RUnlock()

	switch {
	case j.started.IsZero():
		return 0
	case j.finished.IsZero():
		return time.Since(j.started)
	default:
		return j.finished.Sub(j.started)
	}
}

func (j *Job) Note(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.notes = append(j.notes, Note{At: time.Now(), Message: fmt.Sprintf(format, args...)})
}

func (j *Job) Notes() []Note {
	j.mu.RLock()
	defer j.mu.RUnlock()
	notes := make([]Note, len(j.notes))
	copy(notes, j.notes)
	return notes
}

func (j *Job) start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = JobRunning
	j.started = time.Now()
}

// Finish marks the job completed, or failed when err is non-nil.
func (j *Job) Finish(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.finished = time.Now()
	j.err = err
	if err != nil {
		j.status = JobFailed
	} else {
		j.status = JobCompleted
	}
}

// Manager keeps the jobs of a run in the order they were created.
type Manager struct {
	mu   sync.RWMutex
	jobs []*Job
}

func NewManager() *Manager {
	return &Manager{}
}

// Add registers a pending job for stage.
func (m *Manager) Add(stage string) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &Job{
		ID:     fmt.Sprintf("%s-%d", stage, len(m.jobs)+1),
		Stage:  stage,
		status: JobPending,
	}
	m.jobs = append(m.jobs, job)
	return job
}

// Start registers a job for stage and marks it running.
func (m *Manager) Start(stage string) *Job {
	job := m.Add(stage)
	job.start()
	return job
}

// Track runs fn as a new job for stage and returns its error.
func (m *Manager) Track(stage string, fn func(job *Job) error) error {
	job := m.Start(stage)
	err := fn(job)
	job.Finish(err)
	return err
}

// Last returns the most recent job for stage.
func (m *Manager) Last(stage string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.jobs) - 1; i >= 0; i-- {
		if m.jobs[i].Stage == stage {
			return m.jobs[i], true
		}
	}
	return nil, false
}

func (m *Manager) List() []*Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]*Job, len(m.jobs))
	copy(jobs, m.jobs)
	return jobs
}
