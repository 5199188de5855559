package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/deckshareapp/deckshare-backend/pkg/logger"
)

type fakeSweeper struct {
	batch   int
	expired int
	err     error
	calls   int
}

func (f *fakeSweeper) SweepExpired(ctx context.Context, batchSize int) (int, error) {
	f.calls++
	f.batch = batchSize
	if f.err != nil {
		return 0, f.err
	}
	return f.expired, nil
}

func TestInviteExpiryJobSweeps(t *testing.T) {
	sweeper := &fakeSweeper{expired: 4}
	job, err := NewInviteExpiryJob(InviteExpiryJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Sweeper:   sweeper,
		BatchSize: 50,
	})
	if err != nil {
		t.Fatalf("NewInviteExpiryJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sweeper.calls != 1 || sweeper.batch != 50 {
		t.Fatalf("expected one sweep with batch 50, got %d calls batch %d", sweeper.calls, sweeper.batch)
	}
}

func TestInviteExpiryJobDefaultsBatch(t *testing.T) {
	sweeper := &fakeSweeper{}
	job, err := NewInviteExpiryJob(InviteExpiryJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Sweeper: sweeper,
	})
	if err != nil {
		t.Fatalf("NewInviteExpiryJob: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sweeper.batch != defaultSweepBatch {
		t.Fatalf("expected default batch %d, got %d", defaultSweepBatch, sweeper.batch)
	}
}

func TestInviteExpiryJobPropagatesError(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("boom")}
	job, err := NewInviteExpiryJob(InviteExpiryJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Sweeper: sweeper,
	})
	if err != nil {
		t.Fatalf("NewInviteExpiryJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestInviteExpiryJobRequiresSweeper(t *testing.T) {
	_, err := NewInviteExpiryJob(InviteExpiryJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
	})
	if err == nil {
		t.Fatal("expected constructor error without sweeper")
	}
}
