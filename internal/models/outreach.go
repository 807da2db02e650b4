package models

import (
	"fmt"
	"time"
)

// OutreachEntry logs one networking contact. Entries feed the outreach
// achievement metric.
type OutreachEntry struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Contact   string    `json:"contact"`
	Program   string    `json:"program,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *OutreachEntry) Validate() error {
	if e.Contact == "" {
		return fmt.Errorf("outreach contact cannot be empty")
	}
	return nil
}
