package domain

import "time"

type Project struct {
	ID         string
	Name       string
	Contractor string
	StartDate  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayID returns a short identifier for display, truncating the UUID.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
