package tickets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"special-requests/internal/models"
)

type fakeWriter struct {
	mu      sync.Mutex
	written map[int]models.Status
	failOn  map[int]bool
}

func newFakeWriter(failOn ...int) *fakeWriter {
	w := &fakeWriter{written: map[int]models.Status{}, failOn: map[int]bool{}}
	for _, h := range failOn {
		w.failOn[h] = true
	}
	return w
}

func (w *fakeWriter) UpdateRowStatus(ctx context.Context, handle int, status models.Status) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failOn[handle] {
		return errors.New("row store unavailable")
	}
	w.written[handle] = status
	return nil
}

func threeItemTicket() models.Ticket {
	return models.Ticket{
		ID:     "T1",
		Status: models.StatusPending,
		Items: []models.Row{
			{TicketID: "T1", Handle: 2},
			{TicketID: "T1", Handle: 5},
			{TicketID: "T1", Handle: 8},
		},
	}
}

func TestApplyStatus_OneCommandPerItem(t *testing.T) {
	cmds := ApplyStatus(threeItemTicket(), models.StatusOngoing)

	require.Len(t, cmds, 3)
	handles := map[int]bool{}
	for _, c := range cmds {
		assert.Equal(t, models.StatusOngoing, c.Status)
		handles[c.Handle] = true
	}
	assert.Len(t, handles, 3)
}

func TestApplyStatus_SameStatusStillWrites(t *testing.T) {
	cmds := ApplyStatus(threeItemTicket(), models.StatusPending)
	assert.Len(t, cmds, 3)
}

func TestFanOut_AllSucceed(t *testing.T) {
	w := newFakeWriter()

	res := FanOut(context.Background(), w, ApplyStatus(threeItemTicket(), models.StatusCompleted))

	require.NoError(t, res.Err())
	assert.Equal(t, FanOutResult{Attempted: 3, Succeeded: 3}, res)
	assert.Equal(t, map[int]models.Status{
		2: models.StatusCompleted,
		5: models.StatusCompleted,
		8: models.StatusCompleted,
	}, w.written)
}

func TestFanOut_PartialFailureKeepsWrittenRows(t *testing.T) {
	w := newFakeWriter(5)

	res := FanOut(context.Background(), w, ApplyStatus(threeItemTicket(), models.StatusRejected))

	require.Error(t, res.Err())
	assert.ErrorIs(t, res.Err(), ErrPartialWrite)
	assert.Equal(t, 3, res.Attempted)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	// no rollback of the rows that went through
	assert.Equal(t, models.StatusRejected, w.written[2])
	assert.Equal(t, models.StatusRejected, w.written[8])
	_, ok := w.written[5]
	assert.False(t, ok)
}

func TestFanOut_NoCommands(t *testing.T) {
	res := FanOut(context.Background(), newFakeWriter(), nil)
	assert.NoError(t, res.Err())
	assert.Zero(t, res.Attempted)
}
