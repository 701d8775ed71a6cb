package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRunnerDrainsOnClose(t *testing.T) {
	r := NewRunner(2, 16, time.Second, zap.NewNop())

	var done atomic.Int32
	for i := 0; i < 10; i++ {
		r.Submit("count", func(context.Context) error {
			done.Add(1)
			return nil
		})
	}
	r.Close()

	assert.Equal(t, int32(10), done.Load())
}

func TestRunnerSurvivesTaskErrors(t *testing.T) {
	r := NewRunner(1, 4, time.Second, zap.NewNop())

	var done atomic.Int32
	r.Submit("fail", func(context.Context) error {
		return errors.New("boom")
	})
	r.Submit("after", func(context.Context) error {
		done.Add(1)
		return nil
	})
	r.Close()

	assert.Equal(t, int32(1), done.Load(), "a failed task must not stop the worker")
}

func TestSubmitAfterCloseIsDropped(t *testing.T) {
	r := NewRunner(1, 4, time.Second, zap.NewNop())
	r.Close()

	// Must not panic on the closed channel.
	r.Submit("late", func(context.Context) error { return nil })
}

func TestTaskContextHasDeadline(t *testing.T) {
	r := NewRunner(1, 4, 50*time.Millisecond, zap.NewNop())

	var hadDeadline atomic.Bool
	r.Submit("deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		hadDeadline.Store(ok)
		return nil
	})
	r.Close()

	assert.True(t, hadDeadline.Load())
}
