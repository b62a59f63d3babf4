package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Job tracks one asynchronous scan from submission to completion.
type Job struct {
	ID          string     `json:"id"`
	Domain      string     `json:"domain"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	TotalAssets int        `json:"total_assets,omitempty"`
	Vulnerable  int        `json:"vulnerable_assets,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// JobRequest asks for a scan of a root domain.
type JobRequest struct {
	Domain string `json:"domain"`
}

// JobManager keeps scan jobs in memory with bounded retention.
type JobManager struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	maxJobs int
}

// NewJobManager creates a job manager retaining the last 1000 jobs.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:    make(map[string]*Job),
		maxJobs: 1000,
	}
}

// CreateJob records a pending scan job for domain.
func (m *JobManager) CreateJob(domain string) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := &Job{
		ID:     generateID("scan"),
		Domain: domain,
		Status: "pending",
	}
	m.jobs[job.ID] = job
	m.evictLocked()
	return job
}

// UpdateJob applies update to the job under the manager lock and returns a
// copy, or nil when the job does not exist.
func (m *JobManager) UpdateJob(id string, update func(*Job)) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil
	}
	update(job)
	copied := *job
	return &copied
}

// GetJob returns a copy of the job, or nil when it does not exist.
func (m *JobManager) GetJob(id string) *Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if job, ok := m.jobs[id]; ok {
		copied := *job
		return &copied
	}
	return nil
}

// ListJobs returns up to limit jobs, newest first.
func (m *JobManager) ListJobs(limit int) []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		ti, tj := jobStart(jobs[i]), jobStart(jobs[j])
		if ti.Equal(tj) {
			return jobs[i].ID > jobs[j].ID
		}
		return ti.After(tj)
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs
}

func jobStart(j Job) time.Time {
	if j.StartedAt != nil {
		return *j.StartedAt
	}
	return time.Time{}
}

// evictLocked drops finished jobs beyond the retention cap. Caller holds the
// write lock.
func (m *JobManager) evictLocked() {
	if len(m.jobs) <= m.maxJobs {
		return
	}
	type aged struct {
		id string
		at time.Time
	}
	finished := make([]aged, 0, len(m.jobs))
	for id, job := range m.jobs {
		if job.FinishedAt != nil {
			finished = append(finished, aged{id: id, at: *job.FinishedAt})
		}
	}
	sort.Slice(finished, func(i, j int) bool { return finished[i].at.Before(finished[j].at) })
	for _, f := range finished {
		if len(m.jobs) <= m.maxJobs {
			break
		}
		delete(m.jobs, f.id)
	}
}

func generateID(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(b))
}
