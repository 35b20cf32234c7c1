package domain

import "time"

// Client is a customer record captured by the public intake form or entered
// by the operator.
type Client struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Notes         string    `json:"notes"`
	InternalNotes string    `json:"internalNotes,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ClientFields carries everything a caller supplies when creating a Client.
// The repository assigns ID and Timestamp.
type ClientFields struct {
	Name          string
	Email         string
	Phone         string
	Notes         string
	InternalNotes string
}
