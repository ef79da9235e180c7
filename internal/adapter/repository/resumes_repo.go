// Package repository holds the pgx-backed storage adapters. One table per
// résumé section, each row carrying a resume_id foreign key; the resumes
// table owns the metadata row.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/schema"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrNotFound covers both a genuinely missing résumé and one owned by
// another user — ownership failures must be indistinguishable from absence.
var ErrNotFound = errors.New("resume not found")

// ResumeRecord is the resumes-table row.
type ResumeRecord struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	TemplateID    string
	Completion    int
	Sections      []string
	ThumbnailPath string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ResumesRepo struct {
	pool *pgxpool.Pool
}

func NewResumesRepo(pool *pgxpool.Pool) *ResumesRepo {
	return &ResumesRepo{pool: pool}
}

func (r *ResumesRepo) Create(ctx context.Context, rec ResumeRecord) error {
	sectionsB, _ := json.Marshal(rec.Sections)
	_, err := r.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, name, template_id, completion, sections, thumbnail_path, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.UserID, rec.Name, rec.TemplateID, rec.Completion, sectionsB, rec.ThumbnailPath, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

// GetOwned fetches a résumé scoped by both id and owner. Every read and
// write path goes through this gate.
func (r *ResumesRepo) GetOwned(ctx context.Context, id, userID uuid.UUID) (ResumeRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, user_id, name, template_id, completion, sections, thumbnail_path, created_at, updated_at
		FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	return scanResume(row)
}

func (r *ResumesRepo) List(ctx context.Context, userID uuid.UUID) ([]ResumeRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, name, template_id, completion, sections, thumbnail_path, created_at, updated_at
		FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	var out []ResumeRecord
	for rows.Next() {
		rec, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateMeta persists name, template and completion for an owned résumé.
func (r *ResumesRepo) UpdateMeta(ctx context.Context, id, userID uuid.UUID, name, templateID string, completion int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE resumes SET name = $3, template_id = $4, completion = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2`,
		id, userID, name, templateID, completion, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update resume meta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetThumbnail records the captured thumbnail path.
func (r *ResumesRepo) SetThumbnail(ctx context.Context, id, userID uuid.UUID, path string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE resumes SET thumbnail_path = $3 WHERE id = $1 AND user_id = $2`, id, userID, path)
	if err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the résumé and every section row in one transaction, so a
// partial delete (metadata gone, orphan section rows left) is never
// observable. It returns the thumbnail path for file cleanup by the caller.
func (r *ResumesRepo) Delete(ctx context.Context, id, userID uuid.UUID) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var thumbnail string
	err = tx.QueryRow(ctx, `SELECT coalesce(thumbnail_path, '') FROM resumes WHERE id = $1 AND user_id = $2`, id, userID).Scan(&thumbnail)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load resume for delete: %w", err)
	}

	for _, sec := range schema.All() {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %q WHERE resume_id = $1`, sec.Table), id); err != nil {
			return "", fmt.Errorf("delete %s rows: %w", sec.Key, err)
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id); err != nil {
		return "", fmt.Errorf("delete resume row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit delete: %w", err)
	}
	return thumbnail, nil
}

func scanResume(row pgx.Row) (ResumeRecord, error) {
	var rec ResumeRecord
	var sectionsB []byte
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.TemplateID, &rec.Completion,
		&sectionsB, &rec.ThumbnailPath, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("scan resume: %w", err)
	}
	if len(sectionsB) > 0 {
		_ = json.Unmarshal(sectionsB, &rec.Sections)
	}
	return rec, nil
}
