package tickets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"special-requests/internal/models"
)

func sampleTickets() []models.Ticket {
	return []models.Ticket{
		{
			ID: "T1", Store: "Alpha", Status: models.StatusPending,
			Items: []models.Row{{TicketID: "T1", ItemDescription: "Widget A"}},
		},
		{
			ID: "T2", Store: "Beta", Status: models.StatusCompleted,
			Items: []models.Row{{TicketID: "T2", ItemDescription: "Gadget B"}},
		},
	}
}

func ids(ts []models.Ticket) []string {
	out := []string{}
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	cases := []struct {
		name string
		q    Query
		want []string
	}{
		{"empty query matches all", Query{}, []string{"T1", "T2"}},
		{"text matches item description", Query{Text: "widget"}, []string{"T1"}},
		{"status exact", Query{Status: models.StatusCompleted}, []string{"T2"}},
		{"status and text are conjunctive", Query{Status: models.StatusCompleted, Text: "widget"}, []string{}},
		{"text matches store case-insensitively", Query{Text: "BETA"}, []string{"T2"}},
		{"text matches id", Query{Text: "t1"}, []string{"T1"}},
		{"text matches status string", Query{Text: "pend"}, []string{"T1"}},
		{"no match", Query{Text: "sprocket"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Filter(sampleTickets(), tc.q)))
		})
	}
}

func TestFilter_MatchesAnyItem(t *testing.T) {
	ts := []models.Ticket{{
		ID: "T9", Store: "Gamma", Status: models.StatusOngoing,
		Items: []models.Row{
			{ItemDescription: "Bolt"},
			{ItemDescription: "Hex Nut"},
		},
	}}

	assert.Equal(t, []string{"T9"}, ids(Filter(ts, Query{Text: "nut"})))
}

func TestFilter_PreservesOrder(t *testing.T) {
	ts := []models.Ticket{
		{ID: "C", Store: "x"},
		{ID: "A", Store: "x"},
		{ID: "B", Store: "x"},
	}

	assert.Equal(t, []string{"C", "A", "B"}, ids(Filter(ts, Query{Text: "x"})))
}
