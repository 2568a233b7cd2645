// Package store records mission history: one row per event researched,
// with its outcome and how many variant rows it produced.
package store

import (
	"context"
	"time"
)

// MissionStatus tracks the lifecycle of one event's research mission.
type MissionStatus string

const (
	MissionRunning   MissionStatus = "running"
	MissionSucceeded MissionStatus = "succeeded"
	MissionFailed    MissionStatus = "failed"
)

// Mission is one event's research record.
type Mission struct {
	ID         string        `json:"id"`
	Festival   string        `json:"festival"`
	Type       string        `json:"type"`
	Status     MissionStatus `json:"status"`
	FromCache  bool          `json:"from_cache"`
	Rows       int           `json:"rows"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
}

// Store defines the mission history persistence interface.
type Store interface {
	CreateMission(ctx context.Context, festival, eventType string) (*Mission, error)
	CompleteMission(ctx context.Context, id string, status MissionStatus, fromCache bool, rows int) error
	ListMissions(ctx context.Context, limit int) ([]Mission, error)

	Migrate(ctx context.Context) error
	Close() error
}
