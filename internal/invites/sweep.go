package invites

import (
	"context"
	"errors"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/deckshareapp/deckshare-backend/pkg/db"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
	"github.com/deckshareapp/deckshare-backend/pkg/outbox"
	"github.com/deckshareapp/deckshare-backend/pkg/outbox/payloads"
)

// SweepExpired flips pending invites whose deadline has passed to expired,
// one batch per transaction. Each row is flipped with the status
// compare-and-set, so an invite accepted or revoked mid-sweep is simply
// skipped rather than clobbered. Returns the number of invites expired.
func (s *service) SweepExpired(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	total := 0
	for {
		flipped := 0
		done := false

		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			rows, err := repo.ListExpiredPending(ctx, s.now(), batchSize)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expired invites")
			}
			done = len(rows) < batchSize

			var batchErr error
			for i := range rows {
				invite := rows[i]
				if err := repo.MarkExpired(ctx, invite.ID); err != nil {
					if errors.Is(err, db.ErrStatusConflict) {
						// Lost the race to an acceptance or revocation.
						continue
					}
					batchErr = multierr.Append(batchErr, err)
					continue
				}

				if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
					EventType:     enums.EventInviteExpired,
					AggregateType: enums.AggregateInvite,
					AggregateID:   invite.ID,
					Data: payloads.InviteExpiredEvent{
						DeckID:   invite.DeckID,
						InviteID: invite.ID,
					},
				}); err != nil {
					batchErr = multierr.Append(batchErr, err)
					continue
				}
				flipped++
			}
			// A non-nil batchErr rolls the batch back; the rows stay pending
			// and the next run picks them up again.
			return batchErr
		})
		if err != nil {
			return total, err
		}

		total += flipped
		if done {
			return total, nil
		}
	}
}
