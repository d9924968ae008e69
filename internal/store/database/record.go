package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
)

// entryRecord is the row shape of the entries table.
// url is indexed but not unique: duplicates are detected by lookup, not by constraint.
type entryRecord struct {
	ID        string    `gorm:"primaryKey;type:text"`
	URL       string    `gorm:"type:text;not null;index:idx_entries_url"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_entries_created_at"`
}

func (entryRecord) TableName() string {
	return "entries"
}

func (r *entryRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = domain.NewEntryID()
	}
	return nil
}

func (r entryRecord) toDomain() domain.Entry {
	return domain.Entry{
		ID:        r.ID,
		URL:       r.URL,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

func toDomain(records []entryRecord) []domain.Entry {
	entries := make([]domain.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.toDomain())
	}
	return entries
}
