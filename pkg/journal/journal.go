package journal

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/hullhq/bosun/pkg/types"
)

var bucketRuns = []byte("runs")

// Journal persists run records in a local BoltDB file. The external systems
// remain the source of truth for resource existence; the journal only keeps
// history so status mode can report what the last run did.
type Journal struct {
	db *bolt.DB
}

// Open opens (creating if needed) the journal database under dataDir.
func Open(dataDir string) (*Journal, error) {
	dbPath := filepath.Join(dataDir, "bosun.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRuns); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketRuns, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db}, nil
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one run record. Records are keyed by start time plus run ID
// so bucket order is chronological.
func (j *Journal) Record(record *types.RunRecord) error {
	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		key := record.StartedAt.UTC().Format("2006-01-02T15:04:05.000000000Z") + "/" + record.ID
		return b.Put([]byte(key), data)
	})
}

// LastRun returns the most recent run record, or nil when no run has been
// journaled yet.
func (j *Journal) LastRun() (*types.RunRecord, error) {
	var record *types.RunRecord
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		_, v := c.Last()
		if v == nil {
			return nil
		}
		record = &types.RunRecord{}
		return json.Unmarshal(v, record)
	})
	return record, err
}

// Runs returns all run records in chronological order.
func (j *Journal) Runs() ([]*types.RunRecord, error) {
	var records []*types.RunRecord
	err := j.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		return b.ForEach(func(k, v []byte) error {
			var record types.RunRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			records = append(records, &record)
			return nil
		})
	})
	return records, err
}
