package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
	StatusRejected  Status = "Rejected"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusOngoing, StatusCompleted, StatusRejected}

// ParseStatus reports whether s names one of the four statuses (exact match).
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Row is one persisted item line of one ticket, as returned by the row store.
// Handle addresses the row for updates and is never shown to users.
type Row struct {
	TicketID        string    `json:"id"`
	SubmittedAt     time.Time `json:"date"`
	Store           string    `json:"store"`
	ItemCode        string    `json:"procode"`
	ItemDescription string    `json:"prodesc"`
	Quantity        int       `json:"qty"`
	Reason          string    `json:"reason"`
	Status          Status    `json:"status"`
	SubmitterEmail  string    `json:"email"`
	Handle          int       `json:"row"`
}

// RowUpdate sets the status of a single row.
type RowUpdate struct {
	Handle int    `json:"row"`
	Status Status `json:"status"`
}

type MasterItem struct {
	Code        string `json:"code"`
	Description string `json:"desc"`
}

// DraftItem is an item line being assembled by a submitter. Qty stays in
// string form until the row store accepts it.
type DraftItem struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Qty    string `json:"qty"`
	Reason string `json:"reason"`
}

// Quantity parses Qty as a non-negative whole number.
func (d DraftItem) Quantity() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(d.Qty))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid quantity %q for item %s", d.Qty, d.Code)
	}
	return n, nil
}

// Submission is a new ticket handed to the row store, which assigns the
// ticket id and timestamp.
type Submission struct {
	Store string
	Email string
	Items []DraftItem
}
