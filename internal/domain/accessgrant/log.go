package accessgrant

import (
	"fmt"
	"maps"
	"time"
)

// LogEntry is one immutable line of a grant's audit trail.
type LogEntry struct {
	id        uint
	grantID   uint
	level     LogLevel
	message   string
	details   map[string]any
	createdAt time.Time
}

func NewLogEntry(grantID uint, level LogLevel, message string, details map[string]any, at time.Time) (*LogEntry, error) {
	if grantID == 0 {
		return nil, fmt.Errorf("grant ID is required")
	}
	if !level.IsValid() {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}
	if message == "" {
		return nil, fmt.Errorf("log message is required")
	}
	return &LogEntry{
		grantID:   grantID,
		level:     level,
		message:   message,
		details:   maps.Clone(details),
		createdAt: at,
	}, nil
}

func ReconstructLogEntry(id, grantID uint, level LogLevel, message string, details map[string]any, createdAt time.Time) *LogEntry {
	return &LogEntry{
		id:        id,
		grantID:   grantID,
		level:     level,
		message:   message,
		details:   details,
		createdAt: createdAt,
	}
}

func (e *LogEntry) ID() uint {
	return e.id
}

func (e *LogEntry) GrantID() uint {
	return e.grantID
}

func (e *LogEntry) Level() LogLevel {
	return e.level
}

func (e *LogEntry) Message() string {
	return e.message
}

func (e *LogEntry) Details() map[string]any {
	return maps.Clone(e.details)
}

func (e *LogEntry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *LogEntry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("log entry ID is already set")
	}
	e.id = id
	return nil
}
