package usecase_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/auth"
	"resume-builder/internal/schema"
	"resume-builder/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResumes struct {
	recs map[uuid.UUID]repository.ResumeRecord
}

func newFakeResumes() *fakeResumes {
	return &fakeResumes{recs: map[uuid.UUID]repository.ResumeRecord{}}
}

func (f *fakeResumes) Create(_ context.Context, rec repository.ResumeRecord) error {
	f.recs[rec.ID] = rec
	return nil
}

func (f *fakeResumes) GetOwned(_ context.Context, id, userID uuid.UUID) (repository.ResumeRecord, error) {
	rec, ok := f.recs[id]
	if !ok || rec.UserID != userID {
		return repository.ResumeRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func (f *fakeResumes) List(_ context.Context, userID uuid.UUID) ([]repository.ResumeRecord, error) {
	var out []repository.ResumeRecord
	for _, rec := range f.recs {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeResumes) UpdateMeta(_ context.Context, id, userID uuid.UUID, name, templateID string, completion int) error {
	rec, ok := f.recs[id]
	if !ok || rec.UserID != userID {
		return repository.ErrNotFound
	}
	rec.Name, rec.TemplateID, rec.Completion = name, templateID, completion
	f.recs[id] = rec
	return nil
}

func (f *fakeResumes) SetThumbnail(_ context.Context, id, userID uuid.UUID, path string) error {
	rec, ok := f.recs[id]
	if !ok || rec.UserID != userID {
		return repository.ErrNotFound
	}
	rec.ThumbnailPath = path
	f.recs[id] = rec
	return nil
}

func (f *fakeResumes) Delete(_ context.Context, id, userID uuid.UUID) (string, error) {
	rec, ok := f.recs[id]
	if !ok || rec.UserID != userID {
		return "", repository.ErrNotFound
	}
	delete(f.recs, id)
	return rec.ThumbnailPath, nil
}

type fakeSections struct {
	resumes *fakeResumes
	content map[uuid.UUID]map[string][]map[string]interface{}

	bulkErr      error
	bulkCalls    int
	replaceCalls []string
}

func newFakeSections(resumes *fakeResumes) *fakeSections {
	return &fakeSections{
		resumes: resumes,
		content: map[uuid.UUID]map[string][]map[string]interface{}{},
	}
}

func (f *fakeSections) FetchAll(_ context.Context, resumeID uuid.UUID, keys []string) (map[string][]map[string]interface{}, error) {
	out := map[string][]map[string]interface{}{}
	for _, key := range keys {
		rows := f.content[resumeID][key]
		if rows == nil {
			rows = []map[string]interface{}{}
		}
		out[key] = rows
	}
	return out, nil
}

func (f *fakeSections) ReplaceSection(_ context.Context, resumeID uuid.UUID, sec schema.Section, items []map[string]interface{}) error {
	f.replaceCalls = append(f.replaceCalls, sec.Key)
	if f.content[resumeID] == nil {
		f.content[resumeID] = map[string][]map[string]interface{}{}
	}
	f.content[resumeID][sec.Key] = items
	return nil
}

func (f *fakeSections) DeleteItem(_ context.Context, resumeID uuid.UUID, sec schema.Section, itemID int64) error {
	rows := f.content[resumeID][sec.Key]
	kept := rows[:0]
	found := false
	for _, row := range rows {
		if id, ok := row[sec.IDField].(int64); ok && id == itemID {
			found = true
			continue
		}
		kept = append(kept, row)
	}
	if !found {
		return repository.ErrNotFound
	}
	f.content[resumeID][sec.Key] = kept
	return nil
}

func (f *fakeSections) BulkSave(_ context.Context, rec repository.ResumeRecord, sections map[string][]map[string]interface{}) error {
	f.bulkCalls++
	if f.bulkErr != nil {
		// Simulates the transaction rolling back: nothing is applied.
		return f.bulkErr
	}
	f.resumes.recs[rec.ID] = rec
	if f.content[rec.ID] == nil {
		f.content[rec.ID] = map[string][]map[string]interface{}{}
	}
	for key, rows := range sections {
		f.content[rec.ID][key] = rows
	}
	return nil
}

type fixture struct {
	svc      *usecase.Service
	resumes  *fakeResumes
	sections *fakeSections
	owner    auth.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	resumes := newFakeResumes()
	sections := newFakeSections(resumes)
	return &fixture{
		svc:      usecase.NewService(resumes, sections, nil, nil, "", slog.New(slog.NewTextHandler(os.Stderr, nil))),
		resumes:  resumes,
		sections: sections,
		owner:    auth.Context{UserID: uuid.New()},
	}
}

func (f *fixture) seedResume(t *testing.T) uuid.UUID {
	t.Helper()
	doc, err := f.svc.Create(context.Background(), f.owner, "My Resume", "", nil)
	require.NoError(t, err)
	return doc.ID
}

func TestCreate_AppliesDefaults(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	doc, err := f.svc.Create(context.Background(), f.owner, "My Resume", "", nil)
	require.NoError(t, err)

	assert.Equal(t, "modern", doc.TemplateID)
	assert.Equal(t, usecase.DefaultSections(), doc.Sections)

	rec, ok := f.resumes.recs[doc.ID]
	require.True(t, ok)
	assert.Equal(t, f.owner.UserID, rec.UserID)
}

func TestLoad_OwnershipGate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.seedResume(t)

	stranger := auth.Context{UserID: uuid.New()}
	_, err := f.svc.Load(context.Background(), stranger, id)
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	_, err = f.svc.Load(context.Background(), f.owner, id)
	assert.NoError(t, err)
}

func TestLoad_AssemblesAndRecomputesCompletion(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.seedResume(t)
	f.sections.content[id] = map[string][]map[string]interface{}{
		"contact": {{
			"contact_id": int64(1), "name": "Ada", "job_title": "Engineer",
			"email": "ada@example.com", "phone": "+1 555 000 1111",
		}},
		"skills": {{"skill_id": int64(1), "skill_name": "Go"}},
	}

	res, err := f.svc.Load(context.Background(), f.owner, id)
	require.NoError(t, err)

	assert.Equal(t, "Ada", res.Document.Contact.Name)
	require.Len(t, res.Document.Skills, 1)
	// Two of seven steps valid: round(200/7) = 29, regardless of the stored
	// completion column.
	assert.Equal(t, 29, res.Document.Completion)
}

func TestSaveSection_PersistsAndUpdatesMeta(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.seedResume(t)

	doc, err := f.svc.SaveSection(context.Background(), f.owner, id, "skills",
		[]map[string]interface{}{{"id": int64(1), "skillName": "Go"}})
	require.NoError(t, err)

	require.Len(t, doc.Skills, 1)
	rows := f.sections.content[id]["skills"]
	require.Len(t, rows, 1)
	assert.Equal(t, "Go", rows[0]["skill_name"])
	assert.Equal(t, doc.Completion, f.resumes.recs[id].Completion)
}

func TestSaveSection_NoOpVersusDeleteAll(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.seedResume(t)
	f.sections.content[id] = map[string][]map[string]interface{}{
		"skills": {{"skill_id": int64(1), "skill_name": "Go"}},
	}

	// Items that extract to nothing are a no-op, not a wipe.
	_, err := f.svc.SaveSection(context.Background(), f.owner, id, "skills",
		[]map[string]interface{}{{"id": int64(9)}})
	assert.ErrorIs(t, err, usecase.ErrNothingToSave)
	require.Len(t, f.sections.content[id]["skills"], 1)

	// An explicit empty array is a deliberate delete-all.
	_, err = f.svc.SaveSection(context.Background(), f.owner, id, "skills", []map[string]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, f.sections.content[id]["skills"])
}

func TestDeleteItem_ChecksOwnershipFirst(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.seedResume(t)
	f.sections.content[id] = map[string][]map[string]interface{}{
		"skills": {{"skill_id": int64(5), "skill_name": "Go"}},
	}

	stranger := auth.Context{UserID: uuid.New()}
	err := f.svc.DeleteItem(context.Background(), stranger, id, "skills", 5)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	require.Len(t, f.sections.content[id]["skills"], 1)

	require.NoError(t, f.svc.DeleteItem(context.Background(), f.owner, id, "skills", 5))
	assert.Empty(t, f.sections.content[id]["skills"])
}

func TestBulkSave_PersistsEverythingInOneCall(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.seedResume(t)

	doc, err := f.svc.BulkSave(context.Background(), f.owner, id, usecase.BulkSaveInput{
		Name:       "Renamed",
		TemplateID: "classic",
		Sections: map[string][]map[string]interface{}{
			"skills":   {{"id": int64(1), "skillName": "Go"}},
			"projects": {{"id": int64(2), "title": "Pipeline"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", doc.Name)
	assert.Equal(t, 1, f.sections.bulkCalls)
	assert.Empty(t, f.sections.replaceCalls, "bulk save must not use the per-section path")

	rec := f.resumes.recs[id]
	assert.Equal(t, "Renamed", rec.Name)
	assert.Equal(t, "classic", rec.TemplateID)
	require.Len(t, f.sections.content[id]["skills"], 1)
	require.Len(t, f.sections.content[id]["projects"], 1)
}

func TestBulkSave_FailureLeavesNoPartialState(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.seedResume(t)
	f.sections.content[id] = map[string][]map[string]interface{}{
		"skills": {{"skill_id": int64(1), "skill_name": "Go"}},
	}
	f.sections.bulkErr = assert.AnError

	_, err := f.svc.BulkSave(context.Background(), f.owner, id, usecase.BulkSaveInput{
		Name: "Renamed",
		Sections: map[string][]map[string]interface{}{
			"skills":   {{"id": int64(1), "skillName": "Rust"}},
			"projects": {{"id": int64(2), "title": "Pipeline"}},
		},
	})
	require.ErrorIs(t, err, assert.AnError)

	// Old content and metadata are intact.
	rows := f.sections.content[id]["skills"]
	require.Len(t, rows, 1)
	assert.Equal(t, "Go", rows[0]["skill_name"])
	assert.Empty(t, f.sections.content[id]["projects"])
	assert.Equal(t, "My Resume", f.resumes.recs[id].Name)
}

func TestBulkSave_FresherFlagPersistsWithoutExperiencePayload(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.seedResume(t)
	fresher := true

	doc, err := f.svc.BulkSave(context.Background(), f.owner, id, usecase.BulkSaveInput{
		IsFresher: &fresher,
		Sections:  map[string][]map[string]interface{}{},
	})
	require.NoError(t, err)
	assert.True(t, doc.IsFresher)

	rows := f.sections.content[id]["experience"]
	require.Len(t, rows, 1)
	assert.Equal(t, true, rows[0]["is_fresher"])
}

func TestDelete_RemovesThumbnailFile(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.seedResume(t)

	thumb := filepath.Join(t.TempDir(), id.String()+".png")
	require.NoError(t, os.WriteFile(thumb, []byte("png"), 0o644))
	rec := f.resumes.recs[id]
	rec.ThumbnailPath = thumb
	f.resumes.recs[id] = rec

	require.NoError(t, f.svc.Delete(context.Background(), f.owner, id))
	_, err := os.Stat(thumb)
	assert.True(t, os.IsNotExist(err))
	assert.NotContains(t, f.resumes.recs, id)
}
