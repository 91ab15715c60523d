package reminder

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// record is the GORM-mapped row backing a Reminder. Reminder itself stays
// free of persistence tags so the scheduler core never needs to import
// gorm.
type record struct {
	ID     int64  `gorm:"primaryKey"`
	Hour   int    `gorm:"not null"`
	Minute int    `gorm:"not null"`
	Second int    `gorm:"not null"`
	Text   string `gorm:"type:text"`
	UserID string `gorm:"type:varchar(36);index"`
}

func (record) TableName() string { return "reminders" }

func toRecord(r Reminder) record {
	return record{
		ID:     int64(r.ID),
		Hour:   r.FireAt.Hour,
		Minute: r.FireAt.Minute,
		Second: r.FireAt.Second,
		Text:   r.Text,
		UserID: string(r.UserID),
	}
}

func (rec record) toReminder() Reminder {
	return Reminder{
		ID:     ID(rec.ID),
		FireAt: TimeOfDay{Hour: rec.Hour, Minute: rec.Minute, Second: rec.Second},
		Text:   rec.Text,
		UserID: userIDFromString(rec.UserID),
	}
}

// GormStore is a Postgres-backed Store.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore creates a GormStore and auto-migrates its table.
func NewGormStore(db *gorm.DB, logger *zap.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate reminders table: %w", err)
	}
	return &GormStore{db: db, logger: logger}, nil
}

func (s *GormStore) Create(ctx context.Context, r Reminder) error {
	rec := toRecord(r)
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return WrapStoreError("create", err)
	}
	s.logger.Debug("reminder persisted", zap.Int64("reminder_id", int64(r.ID)))
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id ID) error {
	result := s.db.WithContext(ctx).Delete(&record{}, "id = ?", int64(id))
	if result.Error != nil {
		return WrapStoreError("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return NotFoundError{ID: id}
	}
	return nil
}

func (s *GormStore) ListScheduled(ctx context.Context) ([]Reminder, error) {
	var recs []record
	if err := s.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, WrapStoreError("list_scheduled", err)
	}
	out := make([]Reminder, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toReminder())
	}
	return out, nil
}
