// Package store persists run history with GORM over SQLite.
package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/zynxdata/flowmerge/pkg/models"
)

// Run is one recorded pipeline invocation.
type Run struct {
	RunID             string `gorm:"primaryKey"`
	Strategy          string `gorm:"index;not null"`
	WorkflowCount     int
	EnrichedCount     int
	ClusterCount      int
	ConsolidatedCount int
	MeanCohesion      float64 `gorm:"type:real"`
	CreatedAt         string  `gorm:"not null"`
	CreatedAtEpoch    int64   `gorm:"index:idx_runs_created,sort:desc;not null"`
}

func (Run) TableName() string { return "runs" }

// BeforeCreate hook to ensure timestamps are set.
func (r *Run) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAtEpoch == 0 {
		r.CreatedAtEpoch = time.Now().UnixMilli()
	}
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().Format(time.RFC3339)
	}
	return nil
}

// ClusterRecord is a persisted cluster of one run.
type ClusterRecord struct {
	ID          int64                  `gorm:"primaryKey;autoIncrement"`
	RunID       string                 `gorm:"index;not null"`
	ClusterID   string                 `gorm:"not null"`
	Label       string                 `gorm:"index"`
	Cohesion    float64                `gorm:"type:real"`
	MemberCount int                    `gorm:"not null"`
	MemberIDs   models.JSONStringArray `gorm:"type:text"`
}

func (ClusterRecord) TableName() string { return "clusters" }

// ConsolidatedRecord is a persisted consolidated workflow of one run,
// holding the rendered YAML document alongside its source cluster.
type ConsolidatedRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	RunID     string `gorm:"index;not null"`
	ClusterID string `gorm:"not null"`
	Name      string `gorm:"not null"`
	Document  string `gorm:"type:text"`
}

func (ConsolidatedRecord) TableName() string { return "consolidated_workflows" }
