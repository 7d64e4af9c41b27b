package session

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSweeperEvictsExpired(t *testing.T) {
	registry, clock := newTestRegistry()
	id, _ := registry.Create("u1", "boss@wegavilla.lan", "ADMIN")
	clock.Advance(31 * time.Minute)

	sweeper := NewSweeper(registry, 5*time.Millisecond, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, ok := registry.Lookup(id)
		return !ok
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}

func TestSweeperStopsWithoutTick(t *testing.T) {
	registry, _ := newTestRegistry()
	sweeper := NewSweeper(registry, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
