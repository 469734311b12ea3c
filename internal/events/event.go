package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type 标识学习事件的种类。
type Type string

const (
	TypeConceptLearned   Type = "concept_learned"
	TypeCaseStudyAdded   Type = "case_study_added"
	TypeSummaryGenerated Type = "summary_generated"
	TypeToolGenerated    Type = "tool_generated"
	TypeSimulationBuilt  Type = "simulation_generated"
	TypeProgressExported Type = "progress_exported"
)

// Event 是一条学习事件，以 JSON 形式投递。
type Event struct {
	ID         string `json:"id"`
	Type       Type   `json:"type"`
	ItemID     string `json:"item_id,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Category   string `json:"category,omitempty"`
	FocusArea  string `json:"focus_area,omitempty"`
	OccurredAt int64  `json:"occurred_at"`
}

// Publisher 负责把学习事件投递到下游。
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// prepare 补全事件 ID 与时间戳。
func prepare(event Event, now func() time.Time) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt == 0 {
		event.OccurredAt = now().Unix()
	}
	return event
}
