// Package usecase orchestrates the résumé pipeline: fetch rows, assemble the
// Document, apply wizard mutations, extract and persist per section, and
// feed the rendering targets. Collaborators are injected behind use-site
// interfaces so the pipeline is testable with fakes.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/auth"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/schema"
	"resume-builder/internal/transform"
	"resume-builder/internal/wizard"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = repository.ErrNotFound
	ErrNothingToSave  = errors.New("nothing to save")
	ErrUnknownSection = errors.New("unknown section")
)

type ResumeStore interface {
	Create(ctx context.Context, rec repository.ResumeRecord) error
	GetOwned(ctx context.Context, id, userID uuid.UUID) (repository.ResumeRecord, error)
	List(ctx context.Context, userID uuid.UUID) ([]repository.ResumeRecord, error)
	UpdateMeta(ctx context.Context, id, userID uuid.UUID, name, templateID string, completion int) error
	SetThumbnail(ctx context.Context, id, userID uuid.UUID, path string) error
	Delete(ctx context.Context, id, userID uuid.UUID) (string, error)
}

type SectionStore interface {
	FetchAll(ctx context.Context, resumeID uuid.UUID, keys []string) (map[string][]map[string]interface{}, error)
	ReplaceSection(ctx context.Context, resumeID uuid.UUID, sec schema.Section, items []map[string]interface{}) error
	DeleteItem(ctx context.Context, resumeID uuid.UUID, sec schema.Section, itemID int64) error
	BulkSave(ctx context.Context, rec repository.ResumeRecord, sections map[string][]map[string]interface{}) error
}

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
	RenderHTMLToPNG(ctx context.Context, html string) ([]byte, error)
}

type WordExporter interface {
	Export(bodyXML string) ([]byte, error)
}

type Service struct {
	resumes      ResumeStore
	sections     SectionStore
	renderer     Renderer
	word         WordExporter
	thumbnailDir string
	log          *slog.Logger
}

func NewService(resumes ResumeStore, sections SectionStore, renderer Renderer, word WordExporter, thumbnailDir string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		resumes:      resumes,
		sections:     sections,
		renderer:     renderer,
		word:         word,
		thumbnailDir: thumbnailDir,
		log:          log,
	}
}

// DefaultSections is the section set a fresh résumé starts with.
func DefaultSections() []string {
	return []string{"contact", "skills", "experience", "projects", "summary", "education", "declaration"}
}

// Create registers an empty résumé from a template selection.
func (s *Service) Create(ctx context.Context, ac auth.Context, name, templateID string, sections []string) (*model.Document, error) {
	if len(sections) == 0 {
		sections = DefaultSections()
	}
	if templateID == "" {
		templateID = render.DefaultTemplateID
	}
	now := time.Now().UTC()
	rec := repository.ResumeRecord{
		ID:         uuid.New(),
		UserID:     ac.UserID,
		Name:       name,
		TemplateID: templateID,
		Sections:   sections,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.resumes.Create(ctx, rec); err != nil {
		return nil, err
	}
	return model.NewDocument(rec.ID, rec.UserID, name, templateID, sections), nil
}

func (s *Service) List(ctx context.Context, ac auth.Context) ([]repository.ResumeRecord, error) {
	return s.resumes.List(ctx, ac.UserID)
}

// LoadResult is the full-fetch payload: the metadata row, the raw per-table
// content, and the assembled Document.
type LoadResult struct {
	Resume   repository.ResumeRecord
	Content  map[string][]map[string]interface{}
	Document *model.Document
}

// Load fetches and assembles one résumé, recomputing completion from the
// assembled content rather than trusting the stored value.
func (s *Service) Load(ctx context.Context, ac auth.Context, id uuid.UUID) (*LoadResult, error) {
	rec, err := s.resumes.GetOwned(ctx, id, ac.UserID)
	if err != nil {
		return nil, err
	}
	content, err := s.sections.FetchAll(ctx, id, rec.Sections)
	if err != nil {
		return nil, err
	}
	doc, err := transform.AssembleDocument(transform.ResumeRow{
		ID:         rec.ID.String(),
		UserID:     rec.UserID.String(),
		Name:       rec.Name,
		TemplateID: rec.TemplateID,
		Completion: rec.Completion,
		UpdatedAt:  rec.UpdatedAt,
	}, content, rec.Sections)
	if err != nil {
		return nil, fmt.Errorf("assemble document: %w", err)
	}
	doc.Completion = wizard.Compute(doc).Percent
	return &LoadResult{Resume: rec, Content: content, Document: doc}, nil
}

// UpdateMeta persists résumé metadata (name, template, completion).
func (s *Service) UpdateMeta(ctx context.Context, ac auth.Context, id uuid.UUID, name, templateID string, completion int) error {
	return s.resumes.UpdateMeta(ctx, id, ac.UserID, name, templateID, completion)
}

// Delete removes the résumé with all section rows and cleans up the
// thumbnail file. The storage delete is transactional; the file removal is
// best-effort afterwards.
func (s *Service) Delete(ctx context.Context, ac auth.Context, id uuid.UUID) error {
	thumbnail, err := s.resumes.Delete(ctx, id, ac.UserID)
	if err != nil {
		return err
	}
	if thumbnail != "" {
		if err := os.Remove(thumbnail); err != nil && !os.IsNotExist(err) {
			s.log.Warn("thumbnail cleanup failed", "path", thumbnail, "error", err)
		}
	}
	return nil
}

// SaveSection upserts one section's item array. An explicit empty array is a
// valid delete-all; a section that extracts to nothing is reported as
// ErrNothingToSave so callers can treat it as a no-op.
func (s *Service) SaveSection(ctx context.Context, ac auth.Context, id uuid.UUID, key string, items []map[string]interface{}) (*model.Document, error) {
	res, err := s.Load(ctx, ac, id)
	if err != nil {
		return nil, err
	}

	doc, err := wizard.Apply(res.Document, wizard.Action{Type: wizard.ReplaceItems, Section: key, Items: items})
	if err != nil {
		return nil, err
	}

	sec := schema.Resolve(key)
	rows, ok := transform.ExtractSection(sec, doc)
	if !ok {
		if len(items) == 0 {
			// Explicit delete-all.
			rows = []map[string]interface{}{}
		} else {
			return nil, ErrNothingToSave
		}
	}

	if err := s.sections.ReplaceSection(ctx, id, sec, rows); err != nil {
		return nil, err
	}
	if err := s.resumes.UpdateMeta(ctx, id, ac.UserID, doc.Name, doc.TemplateID, doc.Completion); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteItem removes one list-section item. On storage failure callers are
// expected to refetch the section rather than trust an optimistic removal.
func (s *Service) DeleteItem(ctx context.Context, ac auth.Context, id uuid.UUID, key string, itemID int64) error {
	if _, err := s.resumes.GetOwned(ctx, id, ac.UserID); err != nil {
		return err
	}
	return s.sections.DeleteItem(ctx, id, schema.Resolve(key), itemID)
}

// BulkSaveInput is the "Save Resume" request: optional metadata plus the
// section-name → item-array map.
type BulkSaveInput struct {
	Name       string
	TemplateID string
	IsFresher  *bool
	Sections   map[string][]map[string]interface{}
}

// BulkSave applies every section of the request through the same reducer and
// transformer as the per-section path, then persists them in one storage
// transaction together with the metadata row.
func (s *Service) BulkSave(ctx context.Context, ac auth.Context, id uuid.UUID, in BulkSaveInput) (*model.Document, error) {
	res, err := s.Load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	doc := res.Document

	if in.Name != "" {
		if doc, err = wizard.Apply(doc, wizard.Action{Type: wizard.SetName, Name: in.Name}); err != nil {
			return nil, err
		}
	}
	if in.TemplateID != "" {
		if doc, err = wizard.Apply(doc, wizard.Action{Type: wizard.SetTemplate, Template: in.TemplateID}); err != nil {
			return nil, err
		}
	}
	if in.IsFresher != nil {
		if doc, err = wizard.Apply(doc, wizard.Action{Type: wizard.SetFresher, Fresher: *in.IsFresher}); err != nil {
			return nil, err
		}
	}
	for key, items := range in.Sections {
		if doc, err = wizard.Apply(doc, wizard.Action{Type: wizard.ReplaceItems, Section: key, Items: items}); err != nil {
			return nil, err
		}
	}

	toStore := make(map[string][]map[string]interface{}, len(in.Sections))
	for key := range in.Sections {
		sec := schema.Resolve(key)
		rows, ok := transform.ExtractSection(sec, doc)
		if !ok {
			rows = []map[string]interface{}{}
		}
		toStore[key] = rows
	}
	// The fresher flag lives in the experience table; persist its state even
	// when the request did not touch the experience section.
	if in.IsFresher != nil {
		if _, touched := toStore["experience"]; !touched {
			sec := schema.Resolve("experience")
			rows, ok := transform.ExtractSection(sec, doc)
			if !ok {
				rows = []map[string]interface{}{}
			}
			toStore["experience"] = rows
		}
	}

	rec := res.Resume
	rec.Name = doc.Name
	rec.TemplateID = doc.TemplateID
	rec.Completion = doc.Completion
	if err := s.sections.BulkSave(ctx, rec, toStore); err != nil {
		return nil, err
	}

	s.captureThumbnailAsync(ac, rec.ID, doc)
	return doc, nil
}

// captureThumbnailAsync renders a dashboard thumbnail in the background. A
// stale capture must not overwrite a newer one, so the résumé's updated-at
// is checked again before the path is recorded.
func (s *Service) captureThumbnailAsync(ac auth.Context, id uuid.UUID, doc *model.Document) {
	if s.renderer == nil || s.thumbnailDir == "" {
		return
	}
	snapshot := doc.UpdatedAt
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()

		html := render.Page(doc.Name, render.Render(doc))
		png, err := s.renderer.RenderHTMLToPNG(ctx, html)
		if err != nil {
			s.log.Warn("thumbnail capture failed", "resume", id, "error", err)
			return
		}

		rec, err := s.resumes.GetOwned(ctx, id, ac.UserID)
		if err != nil || rec.UpdatedAt.After(snapshot.Add(time.Second)) {
			return
		}

		if err := os.MkdirAll(s.thumbnailDir, 0o755); err != nil {
			s.log.Warn("thumbnail dir create failed", "error", err)
			return
		}
		path := filepath.Join(s.thumbnailDir, id.String()+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			s.log.Warn("thumbnail write failed", "error", err)
			return
		}
		if err := s.resumes.SetThumbnail(ctx, id, ac.UserID, path); err != nil {
			s.log.Warn("thumbnail record failed", "error", err)
		}
	}()
}
