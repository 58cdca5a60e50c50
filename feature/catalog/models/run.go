package models

import "time"

// SyncRun records the outcome of one completed feed synchronization
// ('sync_runs' table). A row is written only on full success; a run that
// aborts leaves no record.
type SyncRun struct {
	ID                  string    `gorm:"column:id;primaryKey;size:36"`
	StartedAt           time.Time `gorm:"column:started_at"`
	FinishedAt          time.Time `gorm:"column:finished_at"`
	TotalOffers         int       `gorm:"column:total_offers"`
	ParsedOffers        int       `gorm:"column:parsed_offers"`
	IgnoredOffers       int       `gorm:"column:ignored_offers"`
	PriceChanged        int       `gorm:"column:price_changed"`
	AvailabilityChanged int       `gorm:"column:availability_changed"`
	Inserted            int       `gorm:"column:inserted"`
	MarkedUnavailable   int       `gorm:"column:marked_unavailable"`
}

// TableName overrides the table name used by gorm.
func (SyncRun) TableName() string {
	return "sync_runs"
}
