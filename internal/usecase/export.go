package usecase

import (
	"context"
	"errors"
	"fmt"

	"resume-builder/internal/auth"
	"resume-builder/internal/render"

	"github.com/google/uuid"
)

// Both exports serialize the same presentation tree the preview renders;
// they are format-specific serializations, not independent rendering paths.

// ExportPDF rasterizes the rendered résumé to an A4 PDF.
func (s *Service) ExportPDF(ctx context.Context, ac auth.Context, id uuid.UUID) ([]byte, error) {
	if s.renderer == nil {
		return nil, errors.New("pdf renderer not configured")
	}
	res, err := s.Load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	html := render.Page(res.Document.Name, render.Render(res.Document))
	pdf, err := s.renderer.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

// ExportDOCX converts the rendered tree to a Word document.
func (s *Service) ExportDOCX(ctx context.Context, ac auth.Context, id uuid.UUID) ([]byte, error) {
	if s.word == nil {
		return nil, errors.New("word exporter not configured")
	}
	res, err := s.Load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	body := render.WordML(render.Render(res.Document))
	out, err := s.word.Export(body)
	if err != nil {
		return nil, fmt.Errorf("export docx: %w", err)
	}
	return out, nil
}
