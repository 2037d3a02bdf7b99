package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"special-requests/internal/metrics"
	"special-requests/internal/models"
	"special-requests/internal/repository"
	"special-requests/internal/tickets"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrInvalidStatus  = errors.New("invalid status")
)

const adminKey = "admin"

type Summarizer interface {
	Summarize(ctx context.Context, ts []models.Ticket) string
}

// AdminDashboard serves the back-office view: every ticket, status derived
// from the last row seen, ticket-wide status changes.
type AdminDashboard struct {
	board   *board
	summary Summarizer
	log     zerolog.Logger
}

func NewAdminDashboard(rows repository.RowStore, summary Summarizer, log zerolog.Logger) *AdminDashboard {
	return &AdminDashboard{
		board:   newBoard(rows, tickets.Admin, log),
		summary: summary,
		log:     log,
	}
}

// List reloads and filters. On a load failure the previously loaded tickets
// are filtered and returned along with the error.
func (d *AdminDashboard) List(ctx context.Context, q tickets.Query) ([]models.Ticket, error) {
	ts, err := d.board.reload(ctx, adminKey, nil)
	return tickets.Filter(ts, q), err
}

func (d *AdminDashboard) Get(ctx context.Context, id string) (models.Ticket, error) {
	ts, err := d.board.reload(ctx, adminKey, nil)
	if err != nil {
		return models.Ticket{}, err
	}
	t, ok := tickets.Find(ts, id)
	if !ok {
		return models.Ticket{}, ErrTicketNotFound
	}
	return t, nil
}

// UpdateStatus sets status on every row of ticket id, then reloads. The
// ticket is located in a fresh load so its row handles are current.
//
// When some rows fail the error wraps tickets.ErrPartialWrite; rows already
// written stay written and a reload shows the mix.
func (d *AdminDashboard) UpdateStatus(ctx context.Context, id string, status models.Status) (models.Ticket, tickets.FanOutResult, error) {
	if _, ok := models.ParseStatus(string(status)); !ok {
		return models.Ticket{}, tickets.FanOutResult{}, ErrInvalidStatus
	}
	t, err := d.Get(ctx, id)
	if err != nil {
		return models.Ticket{}, tickets.FanOutResult{}, err
	}

	res := tickets.FanOut(ctx, d.board.rows, tickets.ApplyStatus(t, status))
	metrics.RowUpdates.WithLabelValues("ok").Add(float64(res.Succeeded))
	metrics.RowUpdates.WithLabelValues("error").Add(float64(res.Failed))

	ev := d.log.Info()
	if res.Failed > 0 {
		ev = d.log.Error().Err(res.First)
	}
	ev.Str("ticket", id).Str("status", string(status)).
		Int("attempted", res.Attempted).Int("succeeded", res.Succeeded).Int("failed", res.Failed).
		Msg("ticket status fan-out")

	if err := res.Err(); err != nil {
		return t, res, err
	}

	updated, err := d.Get(ctx, id)
	if err != nil {
		return t, res, err
	}
	return updated, res, nil
}

// Summary summarizes the tickets matching q. Summarizer failures come back
// as a fixed apology text, never as an error.
func (d *AdminDashboard) Summary(ctx context.Context, q tickets.Query) (string, error) {
	ts, err := d.List(ctx, q)
	if err != nil {
		return "", err
	}
	return d.summary.Summarize(ctx, ts), nil
}

func (d *AdminDashboard) StatusCounts(ctx context.Context) (map[models.Status]int, error) {
	ts, err := d.board.reload(ctx, adminKey, nil)
	if err != nil {
		return nil, err
	}
	return tickets.CountByStatus(ts), nil
}
