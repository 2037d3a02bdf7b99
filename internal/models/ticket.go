package models

import "time"

// Ticket is the ticket-level view derived from rows sharing a ticket id.
// It is rebuilt on every reload and never persisted.
type Ticket struct {
	ID             string    `json:"id"`
	SubmittedAt    time.Time `json:"date"`
	Store          string    `json:"store"`
	SubmitterEmail string    `json:"email"`
	Status         Status    `json:"status"`
	Items          []Row     `json:"items"`
}
