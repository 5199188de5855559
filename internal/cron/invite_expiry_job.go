package cron

import (
	"context"
	"fmt"

	"github.com/deckshareapp/deckshare-backend/pkg/logger"
)

const defaultSweepBatch = 200

type InviteExpiryJobParams struct {
	Logger    *logger.Logger
	Sweeper   inviteSweeper
	BatchSize int
}

type inviteSweeper interface {
	SweepExpired(ctx context.Context, batchSize int) (int, error)
}

// NewInviteExpiryJob builds the job that retires lapsed pending invites.
func NewInviteExpiryJob(params InviteExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("invite sweeper required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultSweepBatch
	}
	return &inviteExpiryJob{
		logg:  params.Logger,
		sweep: params.Sweeper,
		batch: batch,
	}, nil
}

type inviteExpiryJob struct {
	logg  *logger.Logger
	sweep inviteSweeper
	batch int
}

func (j *inviteExpiryJob) Name() string { return "invite-expiry" }

func (j *inviteExpiryJob) Run(ctx context.Context) error {
	expired, err := j.sweep.SweepExpired(ctx, j.batch)
	if err != nil {
		return fmt.Errorf("invite expiry sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"batch_size":      j.batch,
		"invites_expired": expired,
	})
	j.logg.Info(logCtx, "invite expiry sweep complete")
	return nil
}
