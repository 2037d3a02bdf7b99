package tickets

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"special-requests/internal/models"
)

// ErrPartialWrite is reported when at least one row of a status fan-out
// failed. Rows that succeeded are not rolled back.
var ErrPartialWrite = errors.New("status update not applied to every row")

// RowWriter persists a single row's status.
type RowWriter interface {
	UpdateRowStatus(ctx context.Context, handle int, status models.Status) error
}

// ApplyStatus returns one update per item of t, all carrying s. Setting the
// current status again still produces the full set of updates.
func ApplyStatus(t models.Ticket, s models.Status) []models.RowUpdate {
	cmds := make([]models.RowUpdate, 0, len(t.Items))
	for _, it := range t.Items {
		cmds = append(cmds, models.RowUpdate{Handle: it.Handle, Status: s})
	}
	return cmds
}

// FanOutResult aggregates the outcome of a fan-out. It does not say which
// rows failed.
type FanOutResult struct {
	Attempted int
	Succeeded int
	Failed    int
	// First is the first row error observed, if any.
	First error
}

// Err is nil only when every row was written.
func (r FanOutResult) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d rows failed: %v", ErrPartialWrite, r.Failed, r.Attempted, r.First)
}

// FanOut issues every update concurrently and waits for all of them,
// whether or not some fail.
func FanOut(ctx context.Context, w RowWriter, cmds []models.RowUpdate) FanOutResult {
	var ok, failed atomic.Int64
	var g errgroup.Group
	for _, c := range cmds {
		c := c
		g.Go(func() error {
			if err := w.UpdateRowStatus(ctx, c.Handle, c.Status); err != nil {
				failed.Add(1)
				return fmt.Errorf("row %d: %w", c.Handle, err)
			}
			ok.Add(1)
			return nil
		})
	}
	first := g.Wait()
	return FanOutResult{
		Attempted: len(cmds),
		Succeeded: int(ok.Load()),
		Failed:    int(failed.Load()),
		First:     first,
	}
}
