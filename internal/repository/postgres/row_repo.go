package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"special-requests/internal/models"
	"special-requests/internal/repository"
)

// RowRepo keeps request rows in one flat table. row_id is the row handle.
type RowRepo struct{ db *pgxpool.Pool }

func NewRowRepo(db *pgxpool.Pool) *RowRepo { return &RowRepo{db: db} }

var _ repository.RowStore = (*RowRepo)(nil)

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

func (r *RowRepo) FetchRows(ctx context.Context) ([]models.Row, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ticket_id, submitted_at, store, item_code, item_description,
		       quantity, reason, status, submitter_email, row_id
		FROM request_rows
		ORDER BY row_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Row{}
	for rows.Next() {
		var (
			row    models.Row
			status string
		)
		if err := rows.Scan(
			&row.TicketID, &row.SubmittedAt, &row.Store, &row.ItemCode, &row.ItemDescription,
			&row.Quantity, &row.Reason, &status, &row.SubmitterEmail, &row.Handle,
		); err != nil {
			return nil, err
		}
		st, ok := models.ParseStatus(status)
		if !ok {
			st = models.StatusPending
		}
		row.Status = st
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *RowRepo) FetchMasterItems(ctx context.Context) ([]models.MasterItem, error) {
	rows, err := r.db.Query(ctx, `SELECT code, description FROM master_items ORDER BY description ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MasterItem{}
	for rows.Next() {
		var it models.MasterItem
		if err := rows.Scan(&it.Code, &it.Description); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Writes
// -----------------------------------------------------------------------------

func (r *RowRepo) UpdateRowStatus(ctx context.Context, handle int, status models.Status) error {
	ct, err := r.db.Exec(ctx, `UPDATE request_rows SET status=$1 WHERE row_id=$2`, string(status), handle)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", repository.ErrRowNotFound, handle)
	}
	return nil
}

// SubmitTicket allocates the next ticket id and inserts every item in one
// transaction, so a ticket is never stored half-written.
func (r *RowRepo) SubmitTicket(ctx context.Context, sub models.Submission) (string, error) {
	qtys := make([]int, len(sub.Items))
	for i, d := range sub.Items {
		n, err := d.Quantity()
		if err != nil {
			return "", &repository.RejectedError{Message: err.Error()}
		}
		qtys[i] = n
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('ticket_seq')`).Scan(&seq); err != nil {
		return "", err
	}
	id := "R" + strconv.FormatInt(seq, 10)

	batch := &pgx.Batch{}
	for i, d := range sub.Items {
		batch.Queue(`
			INSERT INTO request_rows
				(ticket_id, submitted_at, store, item_code, item_description, quantity, reason, status, submitter_email)
			VALUES ($1, now(), $2, $3, $4, $5, $6, $7, $8)
		`, id, sub.Store, d.Code, d.Name, qtys[i], d.Reason, string(models.StatusPending), sub.Email)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return fmt.Sprintf("Request %s submitted successfully.", id), nil
}
