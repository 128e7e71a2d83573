package careermentor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// UsageRecord is the billing metadata of one turn. It never carries message
// content.
type UsageRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID    string    `gorm:"index;not null"`
	TurnID       string    `gorm:"not null"`
	Agent        string    `gorm:"not null"`
	Model        string
	InputTokens  int64
	OutputTokens int64
	Cost         float64
	Failed       bool
	CreatedAt    time.Time
}

func (UsageRecord) TableName() string {
	return "usage_records"
}

// UsageRecorder stores per-turn usage records.
type UsageRecorder interface {
	Record(ctx context.Context, record UsageRecord) error
	SessionUsage(ctx context.Context, sessionID string) ([]UsageRecord, error)
}

var _ UsageRecorder = &MemoryUsage{}

// MemoryUsage keeps usage records in process memory.
type MemoryUsage struct {
	mu      sync.RWMutex
	records []UsageRecord
}

func NewMemoryUsage() *MemoryUsage {
	return &MemoryUsage{}
}

func (m *MemoryUsage) Record(ctx context.Context, record UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *MemoryUsage) SessionUsage(ctx context.Context, sessionID string) ([]UsageRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []UsageRecord
	for _, record := range m.records {
		if record.SessionID == sessionID {
			result = append(result, record)
		}
	}
	return result, nil
}
