package ports

import "context"

// RepairReport summarises one repair pass.
type RepairReport struct {
	// Fixed counts reassigned identifiers per slot; slots without changes
	// are absent.
	Fixed map[string]int `json:"fixed"`
	// Skipped lists slots that could not be read or parsed.
	Skipped []string `json:"skipped,omitempty"`
}

// RepairService detects and fixes records without a usable identifier.
type RepairService interface {
	Repair(ctx context.Context) (RepairReport, error)
}
