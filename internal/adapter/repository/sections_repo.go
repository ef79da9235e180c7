package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"resume-builder/internal/schema"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SectionsRepo is one generic, schema-driven adapter over all per-section
// tables. The section descriptor carries everything table-specific, so there
// is exactly one code path instead of one handler per table.
type SectionsRepo struct {
	pool *pgxpool.Pool
}

func NewSectionsRepo(pool *pgxpool.Pool) *SectionsRepo {
	return &SectionsRepo{pool: pool}
}

// FetchAll collects the row arrays for every given section key. A missing
// table yields an empty array, not an error — partial section data is a
// normal state for a résumé in progress.
func (r *SectionsRepo) FetchAll(ctx context.Context, resumeID uuid.UUID, keys []string) (map[string][]map[string]interface{}, error) {
	out := make(map[string][]map[string]interface{}, len(keys))
	for _, key := range keys {
		sec := schema.Resolve(key)
		rows, err := r.fetchSection(ctx, resumeID, sec)
		if err != nil {
			out[key] = []map[string]interface{}{}
			continue
		}
		out[key] = rows
	}
	return out, nil
}

func (r *SectionsRepo) fetchSection(ctx context.Context, resumeID uuid.UUID, sec schema.Section) ([]map[string]interface{}, error) {
	q := fmt.Sprintf(`SELECT * FROM %q WHERE resume_id = $1 ORDER BY %q`, sec.Table, sec.IDField)
	rows, err := r.pool.Query(ctx, q, resumeID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", sec.Table, err)
	}
	defer rows.Close()

	out := []map[string]interface{}{}
	fields := rows.FieldDescriptions()
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read %s row: %w", sec.Table, err)
		}
		row := make(map[string]interface{}, len(vals))
		for i, fd := range fields {
			row[string(fd.Name)] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ReplaceSection swaps the stored rows of one section for the given set
// inside a transaction. An explicit empty set is a valid delete-all.
func (r *SectionsRepo) ReplaceSection(ctx context.Context, resumeID uuid.UUID, sec schema.Section, items []map[string]interface{}) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin section tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := replaceInTx(ctx, tx, resumeID, sec, items); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit section save: %w", err)
	}
	return nil
}

// DeleteItem removes a single list-section row, scoped by the résumé id.
func (r *SectionsRepo) DeleteItem(ctx context.Context, resumeID uuid.UUID, sec schema.Section, itemID int64) error {
	q := fmt.Sprintf(`DELETE FROM %q WHERE resume_id = $1 AND %q = $2`, sec.Table, sec.IDField)
	tag, err := r.pool.Exec(ctx, q, resumeID, itemID)
	if err != nil {
		return fmt.Errorf("delete %s item: %w", sec.Key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkSave applies every section plus the résumé metadata row in ONE
// transaction. Any failure rolls the whole batch back; partial application
// is a correctness bug, not a degraded mode.
func (r *SectionsRepo) BulkSave(ctx context.Context, rec ResumeRecord, sections map[string][]map[string]interface{}) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin bulk tx: %w", err)
	}
	defer tx.Rollback(ctx)

	sectionsB, _ := json.Marshal(rec.Sections)
	tag, err := tx.Exec(ctx, `UPDATE resumes SET name = $3, template_id = $4, completion = $5, sections = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2`,
		rec.ID, rec.UserID, rec.Name, rec.TemplateID, rec.Completion, sectionsB, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("bulk update resume meta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	// Stable order so failures are deterministic.
	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := replaceInTx(ctx, tx, rec.ID, schema.Resolve(key), sections[key]); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bulk save: %w", err)
	}
	return nil
}

func replaceInTx(ctx context.Context, tx pgx.Tx, resumeID uuid.UUID, sec schema.Section, items []map[string]interface{}) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %q WHERE resume_id = $1`, sec.Table), resumeID); err != nil {
		return fmt.Errorf("clear %s: %w", sec.Key, err)
	}
	for _, item := range items {
		q, args := insertStatement(sec, resumeID, item)
		if _, err := tx.Exec(ctx, q, args...); err != nil {
			return fmt.Errorf("insert %s row: %w", sec.Key, err)
		}
	}
	return nil
}

// insertStatement builds the INSERT for one cleaned row. Columns are sorted
// for deterministic SQL; list values go to the driver as encoded JSON.
func insertStatement(sec schema.Section, resumeID uuid.UUID, item map[string]interface{}) (string, []interface{}) {
	cols := make([]string, 0, len(item))
	for col := range item {
		if col == sec.IDField || col == "resume_id" {
			continue
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	colSQL := `"resume_id"`
	valSQL := "$1"
	args := []interface{}{resumeID}
	for i, col := range cols {
		colSQL += fmt.Sprintf(`, %q`, col)
		valSQL += fmt.Sprintf(", $%d", i+2)
		val := item[col]
		if sec.IsJSON(col) && val != nil {
			b, _ := json.Marshal(val)
			val = b
		}
		args = append(args, val)
	}
	q := fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, sec.Table, colSQL, valSQL)
	return q, args
}
