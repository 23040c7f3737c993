package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/aspect-analyzer/models"
	"github.com/dtnitsch/aspect-analyzer/pkg/aspects"
)

// ErrNoDataset is returned when a dataset lookup finds nothing.
var ErrNoDataset = errors.New("no dataset found")

// Dataset describes a stored category snapshot
type Dataset struct {
	ID          string    `json:"id" yaml:"id"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	Source      string    `json:"source" yaml:"source"`
	Fingerprint string    `json:"fingerprint" yaml:"fingerprint"`
	RecordCount int       `json:"record_count" yaml:"record_count"`
	WithAspects int       `json:"with_aspects" yaml:"with_aspects"`
}

// SaveDataset stores records unless an identical snapshot exists.
// Returns (dataset_id, cache_hit, error). Records are normalized first so
// the fingerprint matches what the analyzer computes.
func (db *DB) SaveDataset(source string, records []models.CategoryRecord) (string, bool, error) {
	aspects.Normalize(records)
	fingerprint := aspects.Fingerprint(records)

	var existing string
	err := db.QueryRow("SELECT dataset_id FROM datasets WHERE fingerprint = ?", fingerprint).Scan(&existing)
	if err == nil {
		return existing, true, nil
	}
	if err != sql.ErrNoRows {
		return "", false, fmt.Errorf("failed to look up dataset: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	withAspects := 0
	for _, rec := range records {
		if rec.AspectsCount > 0 {
			withAspects++
		}
	}

	id := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO datasets (dataset_id, source, fingerprint, record_count, with_aspects)
		VALUES (?, ?, ?, ?, ?)
	`, id, source, fingerprint, len(records), withAspects)
	if err != nil {
		return "", false, fmt.Errorf("failed to create dataset: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO categories (dataset_id, position, category_id, name, aspects_count, aspects_raw, aspects_parsed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", false, fmt.Errorf("failed to prepare category insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		raw, err := encodeRaw(rec.Aspects)
		if err != nil {
			return "", false, err
		}
		parsed, err := json.Marshal(rec.AspectsParsed)
		if err != nil {
			return "", false, fmt.Errorf("failed to encode aspects: %w", err)
		}
		if _, err := stmt.Exec(id, i, string(rec.ID), rec.Name, rec.AspectsCount, raw, string(parsed)); err != nil {
			return "", false, fmt.Errorf("failed to insert category %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("failed to commit dataset: %w", err)
	}
	return id, false, nil
}

// encodeRaw stores the raw field as its JSON form so string and list
// sources survive the round trip. Absent fields become NULL.
func encodeRaw(raw models.RawAspects) (sql.NullString, error) {
	if !raw.Valid {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode raw aspects: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

const datasetColumns = "dataset_id, created_at, source, fingerprint, record_count, with_aspects"

func scanDataset(row interface{ Scan(...any) error }) (*Dataset, error) {
	var d Dataset
	if err := row.Scan(&d.ID, &d.CreatedAt, &d.Source, &d.Fingerprint, &d.RecordCount, &d.WithAspects); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDataset retrieves a dataset by ID
func (db *DB) GetDataset(id string) (*Dataset, error) {
	d, err := scanDataset(db.QueryRow("SELECT "+datasetColumns+" FROM datasets WHERE dataset_id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset %s: %w", id, ErrNoDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return d, nil
}

// LatestDataset returns the most recently imported dataset.
func (db *DB) LatestDataset() (*Dataset, error) {
	d, err := scanDataset(db.QueryRow("SELECT " + datasetColumns + " FROM datasets ORDER BY created_at DESC, rowid DESC LIMIT 1"))
	if err == sql.ErrNoRows {
		return nil, ErrNoDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest dataset: %w", err)
	}
	return d, nil
}

// ListDatasets returns recent datasets, newest first. limit <= 0 lists all.
func (db *DB) ListDatasets(limit int) ([]Dataset, error) {
	query := "SELECT " + datasetColumns + " FROM datasets ORDER BY created_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []Dataset
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, *d)
	}
	return datasets, rows.Err()
}

// LoadCategories returns the records of a dataset in their import order.
func (db *DB) LoadCategories(id string) ([]models.CategoryRecord, error) {
	if _, err := db.GetDataset(id); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT category_id, name, aspects_count, aspects_raw, aspects_parsed
		FROM categories
		WHERE dataset_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var records []models.CategoryRecord
	for rows.Next() {
		var (
			rec    models.CategoryRecord
			catID  sql.NullString
			raw    sql.NullString
			parsed string
		)
		if err := rows.Scan(&catID, &rec.Name, &rec.AspectsCount, &raw, &parsed); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		rec.ID = models.CategoryID(catID.String)
		if raw.Valid {
			if err := json.Unmarshal([]byte(raw.String), &rec.Aspects); err != nil {
				return nil, fmt.Errorf("failed to decode raw aspects of %q: %w", rec.Name, err)
			}
		}
		rec.AspectsParsed = []string{}
		if err := json.Unmarshal([]byte(parsed), &rec.AspectsParsed); err != nil {
			return nil, fmt.Errorf("failed to decode aspects of %q: %w", rec.Name, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteDataset removes a dataset and its categories. Categories are
// deleted explicitly since pooled connections may not have foreign keys on.
func (db *DB) DeleteDataset(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM categories WHERE dataset_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete categories: %w", err)
	}
	result, err := tx.Exec("DELETE FROM datasets WHERE dataset_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dataset %s: %w", id, ErrNoDataset)
	}
	return tx.Commit()
}
