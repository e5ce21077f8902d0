package publishers

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeDashboardRefreshed marks a freshly rebuilt dashboard snapshot.
const EventTypeDashboardRefreshed = "dashboard.refreshed"

// Event represents the payload published downstream.
type Event struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Competition     string    `json:"competition"`
	CompetitionName string    `json:"competition_name"`
	Season          int       `json:"season"`
	Leader          string    `json:"leader,omitempty"`
	TableRows       int       `json:"table_rows"`
	Scheduled       int       `json:"scheduled_matches"`
	Finished        int       `json:"finished_matches"`
	RefreshedAt     time.Time `json:"refreshed_at"`
}

// NewEvent constructs a refresh Event for a competition season.
func NewEvent(code, name string, season int) Event {
	return Event{
		ID:              uuid.NewString(),
		Type:            EventTypeDashboardRefreshed,
		Competition:     code,
		CompetitionName: name,
		Season:          season,
		RefreshedAt:     time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to brokered messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_type":  e.Type,
		"competition": e.Competition,
	}
}
