package repository

import (
	"context"
	"errors"

	"special-requests/internal/models"
)

// ErrRowNotFound is returned when an update addresses a row that does not exist.
var ErrRowNotFound = errors.New("row not found")

// RowStore is the flat-row persistence service. It owns ticket ids and
// timestamps; callers only group and filter what it returns.
type RowStore interface {
	// FetchRows returns every row, unordered and unfiltered.
	FetchRows(ctx context.Context) ([]models.Row, error)
	// UpdateRowStatus changes one row. There is no batch form.
	UpdateRowStatus(ctx context.Context, handle int, status models.Status) error
	// SubmitTicket stores one row per item under a new ticket id and
	// returns the store's confirmation message.
	SubmitTicket(ctx context.Context, sub models.Submission) (string, error)
	FetchMasterItems(ctx context.Context) ([]models.MasterItem, error)
}

type Registration struct {
	StoreCode string
	StoreName string
	Password  string
	Email     string
}

// Authenticator checks store credentials against whichever backend holds
// the accounts.
type Authenticator interface {
	Login(ctx context.Context, storeCode, password string) (*models.User, error)
	// Register returns the backend's confirmation message.
	Register(ctx context.Context, in Registration) (string, error)
}

// RejectedError is a refusal reported by the backend, with a message meant
// for the user.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }
