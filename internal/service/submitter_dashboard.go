package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"special-requests/internal/models"
	"special-requests/internal/repository"
	"special-requests/internal/tickets"
)

var (
	ErrNoItems        = errors.New("no items in request")
	ErrIncompleteItem = errors.New("item data is incomplete")
)

// SubmitterDashboard serves a store's own tickets. Status comes from the
// first row seen for a ticket, unlike the admin view.
type SubmitterDashboard struct {
	board   *board
	catalog *Catalog
	log     zerolog.Logger
}

func NewSubmitterDashboard(rows repository.RowStore, catalog *Catalog, log zerolog.Logger) *SubmitterDashboard {
	return &SubmitterDashboard{
		board:   newBoard(rows, tickets.Submitter, log),
		catalog: catalog,
		log:     log,
	}
}

// List returns the caller's tickets. Rows are restricted to the caller's
// email before grouping.
func (d *SubmitterDashboard) List(ctx context.Context, email string, q tickets.Query) ([]models.Ticket, error) {
	ts, err := d.board.reload(ctx, email, func(r models.Row) bool { return r.SubmitterEmail == email })
	return tickets.Filter(ts, q), err
}

func (d *SubmitterDashboard) Get(ctx context.Context, email, id string) (models.Ticket, error) {
	ts, err := d.List(ctx, email, tickets.Query{})
	if err != nil {
		return models.Ticket{}, err
	}
	t, ok := tickets.Find(ts, id)
	if !ok {
		return models.Ticket{}, ErrTicketNotFound
	}
	return t, nil
}

// Submit sends drafts as one new ticket under the caller's store and email.
// The row store assigns the ticket id; callers reload to see it.
func (d *SubmitterDashboard) Submit(ctx context.Context, u models.User, drafts []models.DraftItem) (string, error) {
	if len(drafts) == 0 {
		return "", ErrNoItems
	}
	items := make([]models.DraftItem, 0, len(drafts))
	for _, it := range drafts {
		it.Code = strings.TrimSpace(it.Code)
		it.Qty = strings.TrimSpace(it.Qty)
		if it.Code == "" || it.Qty == "" {
			return "", ErrIncompleteItem
		}
		items = append(items, it)
	}

	msg, err := d.board.rows.SubmitTicket(ctx, models.Submission{Store: u.StoreName, Email: u.Email, Items: items})
	if err != nil {
		return "", err
	}
	d.log.Info().Str("store", u.StoreCode).Int("items", len(items)).Msg("request submitted")
	return msg, nil
}

func (d *SubmitterDashboard) SearchItems(ctx context.Context, q string, limit int) ([]models.MasterItem, error) {
	return d.catalog.Search(ctx, q, limit)
}
