// Package http is the Fiber adapter over the résumé service. Handlers stay
// thin: parse, call the service with an explicit auth context, classify the
// error, encode.
package http

import (
	"context"
	"encoding/json"
	"errors"

	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TextGenerator interface {
	GenerateSummary(ctx context.Context, req ai.SummaryRequest) (string, error)
	GenerateProjectDescription(ctx context.Context, req ai.ProjectRequest) (string, error)
}

type Handler struct {
	svc          *usecase.Service
	text         TextGenerator
	templatesDir string
}

func NewHandler(svc *usecase.Service, text TextGenerator, templatesDir string) *Handler {
	return &Handler{svc: svc, text: text, templatesDir: templatesDir}
}

// Register mounts all routes under the authenticated group.
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/", AuthMiddleware())

	api.Post("/resumes", h.CreateResume)
	api.Get("/resumes", h.ListResumes)
	api.Get("/resumes/:id", h.GetResume)
	api.Put("/resumes/:id", h.UpdateResume)
	api.Delete("/resumes/:id", h.DeleteResume)

	api.Put("/resumes/:id/bulk-save", h.BulkSave)
	api.Get("/resumes/:id/export/pdf", h.ExportPDF)
	api.Get("/resumes/:id/export/docx", h.ExportDOCX)
	api.Post("/resumes/:id/:section", h.SaveSection)
	api.Delete("/resumes/:id/:section/:itemId", h.DeleteSectionItem)

	api.Post("/ai/summary", h.GenerateSummary)
	api.Post("/ai/project-description", h.GenerateProjectDescription)
}

type createResumeReq struct {
	Name       string   `json:"name"`
	TemplateID string   `json:"templateId"`
	Sections   []string `json:"sections"`
}

func (h *Handler) CreateResume(c *fiber.Ctx) error {
	var req createResumeReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	doc, err := h.svc.Create(c.Context(), authFrom(c), req.Name, req.TemplateID, req.Sections)
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *Handler) ListResumes(c *fiber.Ctx) error {
	recs, err := h.svc.List(c.Context(), authFrom(c))
	if err != nil {
		return storageError(c, err)
	}
	out := make([]fiber.Map, 0, len(recs))
	for _, r := range recs {
		out = append(out, fiber.Map{
			"id":         r.ID,
			"name":       r.Name,
			"templateId": r.TemplateID,
			"completion": r.Completion,
			"thumbnail":  r.ThumbnailPath,
			"updatedAt":  r.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"resumes": out})
}

func (h *Handler) GetResume(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	res, err := h.svc.Load(c.Context(), authFrom(c), id)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{
		"resume": fiber.Map{
			"id":         res.Resume.ID,
			"name":       res.Resume.Name,
			"templateId": res.Resume.TemplateID,
			"completion": res.Document.Completion,
			"updatedAt":  res.Resume.UpdatedAt,
		},
		"sections": res.Resume.Sections,
		"content":  res.Content,
		"document": res.Document,
	})
}

type updateResumeReq struct {
	Name       string `json:"name"`
	TemplateID string `json:"templateId"`
	Completion int    `json:"completion"`
}

func (h *Handler) UpdateResume(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	var req updateResumeReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.svc.UpdateMeta(c.Context(), authFrom(c), id, req.Name, req.TemplateID, req.Completion); err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{"status": "updated"})
}

func (h *Handler) DeleteResume(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	if err := h.svc.Delete(c.Context(), authFrom(c), id); err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *Handler) SaveSection(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	var items []map[string]interface{}
	if err := c.BodyParser(&items); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expected an array of section items"})
	}
	doc, err := h.svc.SaveSection(c.Context(), authFrom(c), id, c.Params("section"), items)
	if errors.Is(err, usecase.ErrNothingToSave) {
		return c.JSON(fiber.Map{"status": "no-op"})
	}
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{"status": "saved", "completion": doc.Completion})
}

func (h *Handler) DeleteSectionItem(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	itemID, err := c.ParamsInt("itemId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}
	if err := h.svc.DeleteItem(c.Context(), authFrom(c), id, c.Params("section"), int64(itemID)); err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

type bulkSaveReq struct {
	Name       string                              `json:"name"`
	TemplateID string                              `json:"templateId"`
	IsFresher  *bool                               `json:"isFresher"`
	Sections   map[string][]map[string]interface{} `json:"sections"`
}

func (h *Handler) BulkSave(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	var req bulkSaveReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	// Schema gate before any transaction is opened.
	var payload map[string]interface{}
	if err := json.Unmarshal(c.Body(), &payload); err == nil {
		if err := model.ValidateMap(h.templatesDir, payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	doc, err := h.svc.BulkSave(c.Context(), authFrom(c), id, usecase.BulkSaveInput{
		Name:       req.Name,
		TemplateID: req.TemplateID,
		IsFresher:  req.IsFresher,
		Sections:   req.Sections,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(fiber.Map{"status": "saved", "completion": doc.Completion, "document": doc})
}

func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	pdf, err := h.svc.ExportPDF(c.Context(), authFrom(c), id)
	if err != nil {
		return storageError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	return c.Send(pdf)
}

func (h *Handler) ExportDOCX(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	out, err := h.svc.ExportDOCX(c.Context(), authFrom(c), id)
	if err != nil {
		return storageError(c, err)
	}
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	c.Set("Content-Disposition", `attachment; filename="resume.docx"`)
	return c.Send(out)
}

func (h *Handler) GenerateSummary(c *fiber.Ctx) error {
	var req ai.SummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	// The generator degrades to a deterministic fallback internally; this
	// endpoint does not fail on AI-service trouble.
	text, err := h.text.GenerateSummary(c.Context(), req)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "summary generation failed"})
	}
	return c.JSON(fiber.Map{"text": text})
}

func (h *Handler) GenerateProjectDescription(c *fiber.Ctx) error {
	var req ai.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	text, err := h.text.GenerateProjectDescription(c.Context(), req)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "description generation failed"})
	}
	return c.JSON(fiber.Map{"text": text})
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// storageError classifies service errors into the response taxonomy.
// Ownership failures surface as not-found, never forbidden.
func storageError(c *fiber.Ctx, err error) error {
	if errors.Is(err, usecase.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resume not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
