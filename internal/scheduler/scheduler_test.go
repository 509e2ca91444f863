package scheduler

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	done     chan struct{}
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(context.Context) error {
	close(j.done)
	return nil
}

func newFakeJob(name string) *fakeJob {
	return &fakeJob{name: name, schedule: "0 0 7 * * 1-5", done: make(chan struct{})}
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewWithWriter(io.Discard, "error"))

	require.NoError(t, s.AddJob(newFakeJob("screen")))
	err := s.AddJob(newFakeJob("screen"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewWithWriter(io.Discard, "error"))

	job := newFakeJob("broken")
	job.schedule = "not a cron expression"
	require.Error(t, s.AddJob(job))
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(logger.NewWithWriter(io.Discard, "error"))

	job := newFakeJob("screen")
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("screen"))

	select {
	case <-job.done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	// History is written after Run returns
	deadline := time.Now().Add(2 * time.Second)
	for {
		history, err := s.History("screen")
		require.NoError(t, err)

		s.mu.RLock()
		last, ok := history.Last()
		s.mu.RUnlock()
		if ok {
			assert.True(t, last.Success)
			assert.Equal(t, "screen", last.JobName)
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("history was never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunJobUnknownJob(t *testing.T) {
	s := New(logger.NewWithWriter(io.Discard, "error"))
	require.Error(t, s.RunJob("missing"))
}
