package transform_test

import (
	"testing"
	"time"

	"resume-builder/internal/model"
	"resume-builder/internal/schema"
	"resume-builder/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResumeRow() transform.ResumeRow {
	return transform.ResumeRow{
		ID:         "0c8cbf0c-9f2e-4a06-9d6f-0b7f6f9f7a01",
		UserID:     "0c8cbf0c-9f2e-4a06-9d6f-0b7f6f9f7a02",
		Name:       "My Resume",
		TemplateID: "classic",
		UpdatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAssembleDocument_SingletonsNeverAbsent(t *testing.T) {
	t.Parallel()

	doc, err := transform.AssembleDocument(sampleResumeRow(),
		map[string][]map[string]interface{}{},
		[]string{"contact", "summary", "declaration", "projects"})
	require.NoError(t, err)

	// No contact row stored yet: the section is an empty default, not absent.
	assert.Equal(t, model.Contact{}, doc.Contact)
	assert.Equal(t, model.Summary{}, doc.Summary)
	assert.Empty(t, doc.Projects)
	assert.False(t, doc.IsFresher)
}

func TestAssembleDocument_MapsRowsThroughInverseDictionary(t *testing.T) {
	t.Parallel()

	content := map[string][]map[string]interface{}{
		"contact": {{
			"contact_id": int64(4), "resume_id": "x",
			"name": "Ada", "job_title": "Engineer",
			"email": "ada@example.com", "phone": "+1 555 000 1111",
		}},
		"experience": {{
			"experience_id": int64(9), "title": "Dev", "employer": "Acme",
			"from_date": "2021-03-01", "is_fresher": false, "is_current": true,
		}},
		"projects": {{
			"project_id": int64(2), "title": "Pipeline",
			"skills_used": []interface{}{"Go", "SQL"}, "team_size": int64(3),
		}},
	}

	doc, err := transform.AssembleDocument(sampleResumeRow(), content,
		[]string{"contact", "experience", "projects"})
	require.NoError(t, err)

	assert.Equal(t, "Ada", doc.Contact.Name)
	assert.Equal(t, "Engineer", doc.Contact.JobTitle)
	assert.EqualValues(t, 4, doc.Contact.ID)

	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Dev", doc.Experience[0].Title)
	assert.Equal(t, "2021-03-01", doc.Experience[0].From)
	assert.True(t, doc.Experience[0].Current)
	assert.EqualValues(t, 9, doc.Experience[0].ID)

	require.Len(t, doc.Projects, 1)
	assert.Equal(t, []string{"Go", "SQL"}, doc.Projects[0].SkillsUsed)
	assert.Equal(t, 3, doc.Projects[0].TeamSize)
}

func TestAssembleDocument_GeneratesIDsForUnpersistedRows(t *testing.T) {
	t.Parallel()

	content := map[string][]map[string]interface{}{
		"skills": {{"skill_name": "Go"}},
	}
	doc, err := transform.AssembleDocument(sampleResumeRow(), content, []string{"skills"})
	require.NoError(t, err)
	require.Len(t, doc.Skills, 1)
	assert.NotZero(t, doc.Skills[0].ID)
}

func TestAssembleDocument_DerivesFresherFromSentinelRow(t *testing.T) {
	t.Parallel()

	content := map[string][]map[string]interface{}{
		"experience": {{"experience_id": int64(1), "is_fresher": true}},
	}
	doc, err := transform.AssembleDocument(sampleResumeRow(), content, []string{"experience"})
	require.NoError(t, err)

	assert.True(t, doc.IsFresher)
	// The sentinel carries no entry data and must not surface as one.
	assert.Empty(t, doc.Experience)
}

func TestAssembleDocument_UnknownSectionGoesToAdditional(t *testing.T) {
	t.Parallel()

	content := map[string][]map[string]interface{}{
		"hobbies": {{"hobbies_id": int64(1), "hobby": "chess"}},
	}
	doc, err := transform.AssembleDocument(sampleResumeRow(), content, []string{"hobbies"})
	require.NoError(t, err)

	require.Len(t, doc.Additional["hobbies"], 1)
	assert.Equal(t, "chess", doc.Additional["hobbies"][0]["hobby"])
}

func TestExtractSection_NothingToSave(t *testing.T) {
	t.Parallel()

	doc, err := transform.AssembleDocument(sampleResumeRow(), nil, []string{"projects", "declaration"})
	require.NoError(t, err)

	_, ok := transform.ExtractSection(schema.Resolve("projects"), doc)
	assert.False(t, ok)
	_, ok = transform.ExtractSection(schema.Resolve("declaration"), doc)
	assert.False(t, ok)
}

func TestExtractSection_FiltersInvalidItems(t *testing.T) {
	t.Parallel()

	doc := &model.Document{Projects: []model.Project{
		{Title: "Real", Description: "Does things"},
		{}, // neither title nor description: not persisted
		{Link: "https://example.com"},
	}}

	rows, ok := transform.ExtractSection(schema.Resolve("projects"), doc)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "Real", rows[0]["title"])
}

func TestExtractSection_FresherEmitsExactlyOneSentinel(t *testing.T) {
	t.Parallel()

	doc := &model.Document{
		IsFresher: true,
		Experience: []model.Experience{
			{Title: "Ignored", Employer: "Acme"},
			{Title: "Also ignored", Employer: "Beta"},
		},
	}

	rows, ok := transform.ExtractSection(schema.Resolve("experience"), doc)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, true, rows[0]["is_fresher"])
}

func TestExtractSection_RealEntriesCarryFresherFalse(t *testing.T) {
	t.Parallel()

	doc := &model.Document{Experience: []model.Experience{
		{Title: "Eng", Employer: "Acme", From: "2020-01-01"},
	}}

	rows, ok := transform.ExtractSection(schema.Resolve("experience"), doc)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, false, rows[0]["is_fresher"])
	assert.Equal(t, "Eng", rows[0]["title"])
	assert.Equal(t, "2020-01-01", rows[0]["from_date"])
}

// Round-trip property: assemble then extract reproduces the stored field
// values, modulo generated ids.
func TestRoundTrip_AssembleThenExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		rows []map[string]interface{}
	}{
		{"skills", []map[string]interface{}{
			{"skill_id": int64(1), "skill_name": "Go", "level": "expert"},
			{"skill_id": int64(2), "skill_name": "SQL"},
		}},
		{"education", []map[string]interface{}{
			{"education_id": int64(1), "degree": "BSc", "school": "MIT", "from_date": "2015-09-01"},
		}},
		{"experience", []map[string]interface{}{
			{"experience_id": int64(1), "title": "Dev", "employer": "Acme", "is_fresher": false},
		}},
		{"projects", []map[string]interface{}{
			{"project_id": int64(1), "title": "P1", "skills_used": []interface{}{"Go"}, "team_size": int64(2)},
		}},
		{"contact", []map[string]interface{}{
			{"contact_id": int64(1), "name": "Ada", "job_title": "Eng", "email": "a@b.co", "phone": "5550001111"},
		}},
		{"languages", []map[string]interface{}{
			{"language_id": int64(1), "language_name": "English", "proficiency": "native"},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			content := map[string][]map[string]interface{}{tc.key: tc.rows}
			doc, err := transform.AssembleDocument(sampleResumeRow(), content, []string{tc.key})
			require.NoError(t, err)

			got, ok := transform.ExtractSection(schema.Resolve(tc.key), doc)
			require.True(t, ok)
			require.Len(t, got, len(tc.rows))

			for i, want := range tc.rows {
				sec := schema.Resolve(tc.key)
				for col, val := range want {
					if col == sec.IDField || col == "resume_id" {
						continue
					}
					assert.EqualValues(t, val, got[i][col], "%s.%s", tc.key, col)
				}
			}
		})
	}
}
