package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"betnotes/internal/models"
	"betnotes/internal/sportmonks"
)

// ErrSyncInProgress is returned when a sync is requested while another one is
// still running. The store-clear step must never race with itself.
var ErrSyncInProgress = errors.New("taxonomy sync already in progress")

// Fetcher is the remote taxonomy source.
type Fetcher interface {
	FetchAllTypes(ctx context.Context) ([]sportmonks.TypeRecord, error)
}

// SnapshotStore receives a JSON copy of each fetched batch. Optional.
type SnapshotStore interface {
	PutBytes(ctx context.Context, objectPath string, data []byte, contentType string) error
}

type Summary struct {
	RunID       string         `json:"runId"`
	Fetched     int            `json:"fetched"`
	Roots       int            `json:"roots"`
	Children    int            `json:"children"`
	Orphans     int            `json:"orphans"`
	Stored      int            `json:"stored"`
	ByModelType map[string]int `json:"byModelType"`
	DurationMS  int64          `json:"durationMs"`
}

// Engine refreshes the local taxonomy from the remote source. It is the only
// writer of the taxonomy table.
type Engine struct {
	Fetch     Fetcher
	Store     *Store
	Snapshots SnapshotStore

	mu sync.Mutex
}

func NewEngine(fetch Fetcher, store *Store, snapshots SnapshotStore) *Engine {
	return &Engine{Fetch: fetch, Store: store, Snapshots: snapshots}
}

// Sync fetches the full remote type set and replaces the store contents with
// it. The fetch completes before the store is touched, so a remote failure
// leaves the previous taxonomy intact. Writes are parents-first; a child whose
// declared parent is missing from the batch is kept with its parent cleared.
func (e *Engine) Sync(ctx context.Context) (Summary, error) {
	if !e.mu.TryLock() {
		return Summary{}, ErrSyncInProgress
	}
	defer e.mu.Unlock()

	started := time.Now()
	runID := uuid.New().String()
	log.Printf("taxonomy sync %s: fetching types", runID)

	records, err := e.Fetch.FetchAllTypes(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch types: %w", err)
	}

	ids := make(map[int]bool, len(records))
	for _, rec := range records {
		ids[rec.ID] = true
	}

	now := time.Now()
	roots := []models.TaxonomyNode{}
	children := []models.TaxonomyNode{}
	for _, rec := range records {
		node := toNode(rec, now)
		if node.ParentID == nil {
			roots = append(roots, node)
		} else {
			children = append(children, node)
		}
	}

	if err := e.Store.DeleteAll(); err != nil {
		return Summary{}, fmt.Errorf("clear taxonomy: %w", err)
	}

	for _, node := range roots {
		if err := e.Store.Insert(node); err != nil {
			return Summary{}, fmt.Errorf("insert type %d: %w", node.ID, err)
		}
	}

	orphans := 0
	for _, node := range children {
		if !ids[*node.ParentID] {
			log.Printf("taxonomy sync %s: type %d references missing parent %d, storing as root", runID, node.ID, *node.ParentID)
			node.ParentID = nil
			orphans++
		}
		if err := e.Store.Insert(node); err != nil {
			return Summary{}, fmt.Errorf("insert type %d: %w", node.ID, err)
		}
	}

	stored, err := e.Store.Count()
	if err != nil {
		return Summary{}, fmt.Errorf("count stored types: %w", err)
	}
	byModel, err := e.Store.CountByModelType()
	if err != nil {
		return Summary{}, fmt.Errorf("count types by model: %w", err)
	}

	summary := Summary{
		RunID:       runID,
		Fetched:     len(records),
		Roots:       len(roots),
		Children:    len(children),
		Orphans:     orphans,
		Stored:      stored,
		ByModelType: byModel,
		DurationMS:  time.Since(started).Milliseconds(),
	}

	e.archiveSnapshot(ctx, runID, records)
	e.saveRun(summary)

	log.Printf("taxonomy sync %s: stored %d types (%d roots, %d children, %d orphans) in %dms",
		runID, summary.Stored, summary.Roots, summary.Children, summary.Orphans, summary.DurationMS)
	return summary, nil
}

func toNode(rec sportmonks.TypeRecord, syncedAt time.Time) models.TaxonomyNode {
	return models.TaxonomyNode{
		ID:            rec.ID,
		ParentID:      rec.ParentID,
		Name:          rec.Name,
		Code:          rec.Code,
		DeveloperName: rec.DeveloperName,
		Group:         rec.Group,
		StatGroup:     rec.StatGroup,
		ModelType:     rec.ModelType,
		RawJSON:       datatypes.JSON(rec.Raw),
		LastSyncedAt:  syncedAt,
	}
}

// archiveSnapshot keeps a copy of the raw batch for research queries. Best
// effort only: the sync outcome does not depend on it.
func (e *Engine) archiveSnapshot(ctx context.Context, runID string, records []sportmonks.TypeRecord) {
	if e.Snapshots == nil {
		return
	}
	raw := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		raw = append(raw, rec.Raw)
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		log.Printf("taxonomy sync %s: marshal snapshot failed: %v", runID, err)
		return
	}
	object := fmt.Sprintf("taxonomy/snapshots/%s.json", runID)
	if err := e.Snapshots.PutBytes(ctx, object, payload, "application/json"); err != nil {
		log.Printf("taxonomy sync %s: store snapshot failed: %v", runID, err)
	}
}

func (e *Engine) saveRun(summary Summary) {
	byModel, _ := json.Marshal(summary.ByModelType)
	run := models.SyncRun{
		ID:          summary.RunID,
		Fetched:     summary.Fetched,
		Roots:       summary.Roots,
		Children:    summary.Children,
		Orphans:     summary.Orphans,
		Stored:      summary.Stored,
		ByModelJSON: datatypes.JSON(byModel),
		DurationMS:  summary.DurationMS,
	}
	if err := e.Store.SaveRun(run); err != nil {
		log.Printf("taxonomy sync %s: save run summary failed: %v", summary.RunID, err)
	}
}
