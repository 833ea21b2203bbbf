package publisher

import (
	"context"
	"fmt"

	"github.com/jgoulah/smarthome/pkg/models"
)

// Store lists pending usage records and marks them once sent
type Store interface {
	ListUnpublishedUsage(limit int) ([]models.DeviceUsage, error)
	MarkPublished(id int) error
}

// Result counts the outcome of a Drain
type Result struct {
	Pending   int
	Published int
	Failed    int
}

// Progress is called after each record is attempted. err is nil on success.
type Progress func(i, total int, u models.DeviceUsage, err error)

// Drain publishes up to limit unpublished records (all when limit <= 0) and
// marks each successful one as published. A failed record stays pending and
// is retried by the next Drain. Drain stops early only when ctx is done.
func Drain(ctx context.Context, store Store, sink Sink, limit int, progress Progress) (Result, error) {
	records, err := store.ListUnpublishedUsage(limit)
	if err != nil {
		return Result{}, fmt.Errorf("listing unpublished usage: %w", err)
	}

	res := Result{Pending: len(records)}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		err := sink.Publish(ctx, rec)
		if err == nil {
			if markErr := store.MarkPublished(rec.ID); markErr != nil {
				err = fmt.Errorf("marking record %d as published: %w", rec.ID, markErr)
			}
		}
		if err != nil {
			res.Failed++
		} else {
			res.Published++
		}
		if progress != nil {
			progress(i+1, len(records), rec, err)
		}
	}
	return res, nil
}
