package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"special-requests/internal/metrics"
	"special-requests/internal/models"
	"special-requests/internal/repository"
	"special-requests/internal/tickets"
)

// ErrLoad wraps any failure to read rows from the row store.
var ErrLoad = errors.New("load failed")

// board keeps the last successfully loaded ticket list per viewer. A failed
// reload leaves the list untouched; of two overlapping reloads the one
// started last wins, whatever order they finish in.
type board struct {
	rows    repository.RowStore
	variant tickets.Variant
	log     zerolog.Logger

	mu    sync.Mutex
	seq   uint64
	views map[string]*view
}

type view struct {
	applied uint64
	tickets []models.Ticket
}

func newBoard(rows repository.RowStore, v tickets.Variant, log zerolog.Logger) *board {
	return &board{rows: rows, variant: v, log: log, views: map[string]*view{}}
}

// reload fetches every row, keeps those accepted by keep (all when nil),
// groups them and stores the result under key. On failure it returns the
// previous list for key together with an ErrLoad error.
func (b *board) reload(ctx context.Context, key string, keep func(models.Row) bool) ([]models.Ticket, error) {
	b.mu.Lock()
	b.seq++
	gen := b.seq
	b.mu.Unlock()

	rows, err := b.rows.FetchRows(ctx)
	if err != nil {
		metrics.Reloads.WithLabelValues(b.variant.String(), "error").Inc()
		b.log.Warn().Err(err).Str("variant", b.variant.String()).Msg("row store reload failed")
		return b.snapshot(key), fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if keep != nil {
		kept := rows[:0:0]
		for _, r := range rows {
			if keep(r) {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	grouped := tickets.Group(rows, b.variant)
	metrics.Reloads.WithLabelValues(b.variant.String(), "ok").Inc()

	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.views[key]
	if !ok {
		v = &view{}
		b.views[key] = v
	}
	if gen > v.applied {
		v.applied = gen
		v.tickets = grouped
	}
	return v.tickets, nil
}

func (b *board) snapshot(key string) []models.Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.views[key]; ok {
		return v.tickets
	}
	return []models.Ticket{}
}
