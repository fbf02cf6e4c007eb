package models

import "gorm.io/gorm"

// ReconCursor is the durable pagination watermark for a background sync job.
// One row per job name; an empty cursor means the next run starts from the
// newest provider records again.
type ReconCursor struct {
	gorm.Model

	JobName string `gorm:"uniqueIndex;size:64" json:"job_name"`
	Cursor  string `gorm:"size:64" json:"cursor"`
}
