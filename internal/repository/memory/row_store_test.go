package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"special-requests/internal/models"
	"special-requests/internal/repository"
)

func TestStore_SubmitAssignsIDAndHandles(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s, err := New(nil)
	require.NoError(t, err)
	s.WithClock(func() time.Time { return at })
	ctx := context.Background()

	msg, err := s.SubmitTicket(ctx, models.Submission{
		Store: "Alpha", Email: "a@x.io",
		Items: []models.DraftItem{{Code: "A1", Name: "Widget", Qty: "2"}, {Code: "B2", Name: "Gadget", Qty: " 0 "}},
	})
	require.NoError(t, err)
	assert.Contains(t, msg, "R100")

	rows, err := s.FetchRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "R100", rows[0].TicketID)
	assert.Equal(t, 2, rows[0].Handle)
	assert.Equal(t, 3, rows[1].Handle)
	assert.Equal(t, 2, rows[0].Quantity)
	assert.Equal(t, 0, rows[1].Quantity)
	assert.Equal(t, at, rows[0].SubmittedAt)
	assert.Equal(t, models.StatusPending, rows[1].Status)
}

func TestStore_SubmitRejectsBadQuantity(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.SubmitTicket(ctx, models.Submission{Items: []models.DraftItem{{Code: "A1", Qty: "1"}, {Code: "B2", Qty: "two"}}})
	var rej *repository.RejectedError
	require.True(t, errors.As(err, &rej))

	rows, _ := s.FetchRows(ctx)
	assert.Empty(t, rows)
}

func TestStore_UpdateUnknownRow(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	err = s.UpdateRowStatus(context.Background(), 42, models.StatusOngoing)
	assert.ErrorIs(t, err, repository.ErrRowNotFound)
}

func TestStore_FetchReturnsCopy(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)
	ctx := context.Background()
	_, err = s.SubmitTicket(ctx, models.Submission{Items: []models.DraftItem{{Code: "A", Qty: "1"}}})
	require.NoError(t, err)

	rows, _ := s.FetchRows(ctx)
	rows[0].Status = models.StatusRejected

	again, _ := s.FetchRows(ctx)
	assert.Equal(t, models.StatusPending, again[0].Status)
}

func TestStore_Accounts(t *testing.T) {
	admin := models.User{StoreCode: "HQ", StoreName: "Head Office", Email: "hq@x.io", Role: models.RoleAdmin}
	s, err := New(nil, Account{User: admin, Password: "secret"})
	require.NoError(t, err)
	ctx := context.Background()

	u, err := s.Login(ctx, "HQ", "secret")
	require.NoError(t, err)
	assert.Equal(t, admin, *u)

	_, err = s.Login(ctx, "HQ", "nope")
	var rej *repository.RejectedError
	assert.True(t, errors.As(err, &rej))

	_, err = s.Register(ctx, repository.Registration{StoreCode: "S1", StoreName: "One", Password: "pw", Email: "s1@x.io"})
	require.NoError(t, err)
	u, err = s.Login(ctx, "S1", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)

	_, err = s.Register(ctx, repository.Registration{StoreCode: "S1", Password: "pw"})
	assert.True(t, errors.As(err, &rej))
}
