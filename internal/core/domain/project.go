package domain

import "time"

// ProjectStatus is the lifecycle stage of a project.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectCompleted:
		return true
	}
	return false
}

// Project is an engagement, optionally tied to a client.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	Budget      float64       `json:"budget"`
	Description string        `json:"description,omitempty"`
	ClientID    string        `json:"clientId,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
	UpdatedAt   time.Time     `json:"updatedAt,omitzero"`
}

// ProjectFields carries the caller-supplied part of a Project.
type ProjectFields struct {
	Name        string
	Status      ProjectStatus
	Budget      float64
	Description string
	ClientID    string
}

// ApplyDefaults fills optional fields missing from older stored projects.
func (p *Project) ApplyDefaults() {
	if p.Status == "" {
		p.Status = ProjectPlanning
	}
}
