package models

import (
	"time"

	"gorm.io/datatypes"
)

// TaxonomyNode mirrors one SportsMonks type record. IDs are assigned by the
// provider, never locally.
type TaxonomyNode struct {
	ID            int            `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ParentID      *int           `gorm:"index" json:"parentId"`
	Name          string         `gorm:"size:255" json:"name"`
	Code          string         `gorm:"size:255" json:"code"`
	DeveloperName string         `gorm:"size:255" json:"developerName"`
	Group         *string        `gorm:"size:255" json:"group"`
	StatGroup     *string        `gorm:"size:255" json:"statGroup"`
	ModelType     string         `gorm:"size:100;index" json:"modelType"`
	RawJSON       datatypes.JSON `gorm:"type:json" json:"-"`
	LastSyncedAt  time.Time      `json:"lastSyncedAt"`
}

// SyncRun records the outcome of one completed taxonomy sync.
type SyncRun struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Fetched     int            `json:"fetched"`
	Roots       int            `json:"roots"`
	Children    int            `json:"children"`
	Orphans     int            `json:"orphans"`
	Stored      int            `json:"stored"`
	ByModelJSON datatypes.JSON `gorm:"type:json" json:"byModelType"`
	DurationMS  int64          `json:"durationMs"`
	CreatedAt   time.Time      `json:"createdAt"`
}
