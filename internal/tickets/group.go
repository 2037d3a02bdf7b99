package tickets

import (
	"sort"

	"special-requests/internal/models"
)

// Variant selects how a ticket's status is derived from its rows.
type Variant int

const (
	// Admin takes the status of the last row encountered for a ticket.
	Admin Variant = iota
	// Submitter keeps the status of the first row encountered for a ticket.
	Submitter
)

func (v Variant) String() string {
	if v == Submitter {
		return "submitter"
	}
	return "admin"
}

// Group folds rows into one ticket per distinct ticket id.
//
// Rows may arrive in any order and interleaved across tickets. Rows without a
// ticket id are dropped. Items keep input order. Date, store and email come
// from the first row of a ticket; status follows v. The result is sorted by
// SubmittedAt, newest first, with ties kept in first-encounter order.
func Group(rows []models.Row, v Variant) []models.Ticket {
	index := make(map[string]int)
	out := make([]models.Ticket, 0)

	for _, r := range rows {
		if r.TicketID == "" {
			continue
		}
		i, ok := index[r.TicketID]
		if !ok {
			i = len(out)
			index[r.TicketID] = i
			out = append(out, models.Ticket{
				ID:             r.TicketID,
				SubmittedAt:    r.SubmittedAt,
				Store:          r.Store,
				SubmitterEmail: r.SubmitterEmail,
				Status:         r.Status,
			})
		}
		t := &out[i]
		t.Items = append(t.Items, r)
		if v == Admin {
			t.Status = r.Status
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].SubmittedAt.After(out[b].SubmittedAt)
	})
	return out
}

// Find returns the ticket with the given id.
func Find(ts []models.Ticket, id string) (models.Ticket, bool) {
	for _, t := range ts {
		if t.ID == id {
			return t, true
		}
	}
	return models.Ticket{}, false
}

// CountByStatus tallies tickets per status. Every known status is present in
// the result, zero or not.
func CountByStatus(ts []models.Ticket) map[models.Status]int {
	counts := make(map[models.Status]int, len(models.Statuses))
	for _, s := range models.Statuses {
		counts[s] = 0
	}
	for _, t := range ts {
		counts[t.Status]++
	}
	return counts
}
