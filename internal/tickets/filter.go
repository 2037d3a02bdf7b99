package tickets

import (
	"strings"

	"special-requests/internal/models"
)

// Query narrows a ticket list. Zero values match everything.
type Query struct {
	Status models.Status
	Text   string
}

// Filter returns the tickets matching q, preserving input order.
// Status must match exactly. Text is matched case-insensitively as a
// substring of the ticket id, store, status or any item description.
func Filter(ts []models.Ticket, q Query) []models.Ticket {
	needle := strings.ToLower(q.Text)
	out := make([]models.Ticket, 0, len(ts))
	for _, t := range ts {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if needle != "" && !matches(t, needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(t models.Ticket, needle string) bool {
	if contains(t.ID, needle) || contains(t.Store, needle) || contains(string(t.Status), needle) {
		return true
	}
	for _, it := range t.Items {
		if contains(it.ItemDescription, needle) {
			return true
		}
	}
	return false
}

func contains(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
