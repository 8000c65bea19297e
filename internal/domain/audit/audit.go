// Package audit describes audit trail entries written by state-changing operations.
package audit

import (
	"context"
	"reflect"
	"strconv"
	"time"

	appctx "optiretail/internal/core/context"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionConfirm   Action = "confirm"
	ActionUnconfirm Action = "unconfirm"
	ActionUpdate    Action = "update"
)

// Entry is one audit record before it is persisted.
type Entry struct {
	EntityType string
	EntityID   string
	Action     Action
	UserID     string
	UserName   string
	Changes    map[string]any
}

// Recorder persists audit entries. Implementations write inside the
// transaction carried by ctx when there is one.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// HistoryEntry is one stored audit record as read back.
type HistoryEntry struct {
	ID         int64
	EntityType string
	EntityID   string
	Action     Action
	UserID     *string
	UserName   *string
	Changes    map[string]any
	CreatedAt  time.Time
}

// Reader reads the audit trail of one entity, newest first.
type Reader interface {
	History(ctx context.Context, entityType, entityID string, limit int) ([]HistoryEntry, error)
}

// EntityID formats a numeric primary key for the entity_id column.
func EntityID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// EnrichUser fills the user fields of an entry from the request context.
// Fields that are already set are kept.
func EnrichUser(ctx context.Context, e *Entry) {
	user := appctx.GetUser(ctx)
	if user == nil {
		return
	}
	if e.UserID == "" {
		e.UserID = user.UserID
	}
	if e.UserName == "" {
		e.UserName = user.UserName
	}
}

// Diff returns the fields that differ between two states as {"old","new"} pairs.
func Diff(oldState, newState map[string]any) map[string]any {
	changes := make(map[string]any)

	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists {
			changes[key] = map[string]any{"old": nil, "new": newVal}
		} else if !reflect.DeepEqual(oldVal, newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}

	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}

// NopRecorder discards entries and has no history.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, Entry) error { return nil }

// History implements Reader.
func (NopRecorder) History(context.Context, string, string, int) ([]HistoryEntry, error) {
	return nil, nil
}
