// Package migration runs the startup DDL. Section tables are generated from
// the schema registry, so adding a section to the registry is enough to get
// its table.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"resume-builder/internal/schema"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migration represents one named, idempotent migration step.
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// RunMigrations executes all migrations on startup.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("starting database migrations")

	migrations := []Migration{
		{Name: "create_resumes_table", Up: createResumesTable},
		{Name: "create_section_tables", Up: createSectionTables},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("migration completed", "name", m.Name)
	}
	return nil
}

func createResumesTable(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			name TEXT NOT NULL,
			template_id TEXT NOT NULL DEFAULT 'modern',
			completion INTEGER NOT NULL DEFAULT 0,
			sections JSONB NOT NULL DEFAULT '[]'::jsonb,
			thumbnail_path TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes (user_id);
	`
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create resumes table: %w", err)
	}
	return nil
}

func createSectionTables(ctx context.Context, pool *pgxpool.Pool) error {
	for _, sec := range schema.All() {
		if _, err := pool.Exec(ctx, sectionDDL(sec)); err != nil {
			return fmt.Errorf("create %s table: %w", sec.Key, err)
		}
	}
	return nil
}

// sectionDDL builds the CREATE TABLE for one section from its descriptor.
// Integer columns become INTEGER, list columns JSONB, the experience fresher
// sentinel flag BOOLEAN; everything else is TEXT — the cleaner guarantees
// NULL, never '', for absent values.
func sectionDDL(sec schema.Section) string {
	cols := make([]string, 0, len(sec.Fields))
	for _, col := range sec.Fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %q (\n", sec.Table)
	fmt.Fprintf(&b, "\t%q BIGSERIAL PRIMARY KEY,\n", sec.IDField)
	b.WriteString("\tresume_id UUID NOT NULL REFERENCES resumes (id) ON DELETE CASCADE")
	for _, col := range cols {
		b.WriteString(",\n\t")
		switch {
		case sec.IsInteger(col):
			fmt.Fprintf(&b, "%q INTEGER", col)
		case sec.IsJSON(col):
			fmt.Fprintf(&b, "%q JSONB", col)
		case col == "is_fresher" || col == "is_current":
			fmt.Fprintf(&b, "%q BOOLEAN NOT NULL DEFAULT false", col)
		default:
			fmt.Fprintf(&b, "%q TEXT", col)
		}
	}
	b.WriteString("\n);")
	fmt.Fprintf(&b, "\nCREATE INDEX IF NOT EXISTS %q ON %q (resume_id);",
		strings.ToLower(sec.Table)+"_resume_idx", sec.Table)
	return b.String()
}
