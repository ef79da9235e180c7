package wizard_test

import (
	"testing"

	"resume-builder/internal/model"
	"resume-builder/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_NeverMutatesInput(t *testing.T) {
	t.Parallel()

	doc := &model.Document{Skills: []model.Skill{{ID: 1, Name: "Go"}}}
	_, err := wizard.Apply(doc, wizard.Action{
		Type: wizard.RemoveItem, Section: "skills", ItemID: 1,
	})
	require.NoError(t, err)
	assert.Len(t, doc.Skills, 1)
}

func TestApply_SetContactRecomputesCompletion(t *testing.T) {
	t.Parallel()

	doc := &model.Document{}
	require.Equal(t, 0, wizard.Compute(doc).Valid)

	c := validBasics()
	next, err := wizard.Apply(doc, wizard.Action{Type: wizard.SetContact, Contact: &c})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", next.Contact.Name)
	assert.Equal(t, 14, next.Completion)
	assert.False(t, next.UpdatedAt.IsZero())
}

func TestApply_MetaActions(t *testing.T) {
	t.Parallel()

	doc := &model.Document{Name: "Old", TemplateID: "modern"}

	next, err := wizard.Apply(doc, wizard.Action{Type: wizard.SetName, Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", next.Name)

	next, err = wizard.Apply(doc, wizard.Action{Type: wizard.SetTemplate, Template: "classic"})
	require.NoError(t, err)
	assert.Equal(t, "classic", next.TemplateID)

	next, err = wizard.Apply(doc, wizard.Action{Type: wizard.SetSections, Sections: []string{"contact", "skills"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"contact", "skills"}, next.Sections)
}

func TestApply_FresherTogglePreservesEntries(t *testing.T) {
	t.Parallel()

	doc := &model.Document{Experience: []model.Experience{{ID: 1, Title: "Dev", Employer: "Acme"}}}

	on, err := wizard.Apply(doc, wizard.Action{Type: wizard.SetFresher, Fresher: true})
	require.NoError(t, err)
	assert.True(t, on.IsFresher)
	// Entries stay in the Document while the flag holds; only extraction
	// suppresses them.
	require.Len(t, on.Experience, 1)

	off, err := wizard.Apply(on, wizard.Action{Type: wizard.SetFresher, Fresher: false})
	require.NoError(t, err)
	assert.False(t, off.IsFresher)
	require.Len(t, off.Experience, 1)
	assert.Equal(t, "Dev", off.Experience[0].Title)
}

func TestApply_AddUpdateRemoveItem(t *testing.T) {
	t.Parallel()

	doc := &model.Document{}

	next, err := wizard.Apply(doc, wizard.Action{
		Type: wizard.AddItem, Section: "skills",
		Item: map[string]interface{}{"id": int64(5), "skillName": "Go"},
	})
	require.NoError(t, err)
	require.Len(t, next.Skills, 1)
	assert.Equal(t, "Go", next.Skills[0].Name)

	next, err = wizard.Apply(next, wizard.Action{
		Type: wizard.UpdateItem, Section: "skills", ItemID: 5,
		Item: map[string]interface{}{"skillName": "Rust"},
	})
	require.NoError(t, err)
	require.Len(t, next.Skills, 1)
	assert.Equal(t, "Rust", next.Skills[0].Name)
	assert.EqualValues(t, 5, next.Skills[0].ID)

	next, err = wizard.Apply(next, wizard.Action{
		Type: wizard.RemoveItem, Section: "skills", ItemID: 5,
	})
	require.NoError(t, err)
	assert.Empty(t, next.Skills)
}

func TestApply_AddItemAssignsIDWhenMissing(t *testing.T) {
	t.Parallel()

	next, err := wizard.Apply(&model.Document{}, wizard.Action{
		Type: wizard.AddItem, Section: "projects",
		Item: map[string]interface{}{"title": "P1"},
	})
	require.NoError(t, err)
	require.Len(t, next.Projects, 1)
	assert.NotZero(t, next.Projects[0].ID)
}

func TestApply_ItemActionErrors(t *testing.T) {
	t.Parallel()

	doc := &model.Document{}

	_, err := wizard.Apply(doc, wizard.Action{
		Type: wizard.UpdateItem, Section: "skills", ItemID: 99,
		Item: map[string]interface{}{"skillName": "Go"},
	})
	assert.ErrorIs(t, err, wizard.ErrItemNotFound)

	_, err = wizard.Apply(doc, wizard.Action{
		Type: wizard.RemoveItem, Section: "skills", ItemID: 99,
	})
	assert.ErrorIs(t, err, wizard.ErrItemNotFound)

	_, err = wizard.Apply(doc, wizard.Action{
		Type: wizard.AddItem, Section: "summary",
		Item: map[string]interface{}{"statement": "x"},
	})
	assert.ErrorIs(t, err, wizard.ErrNotListSection)

	_, err = wizard.Apply(doc, wizard.Action{Type: "BOGUS"})
	assert.ErrorIs(t, err, wizard.ErrUnknownAction)
}

func TestApply_ReplaceItemsListSection(t *testing.T) {
	t.Parallel()

	doc := &model.Document{Skills: []model.Skill{{ID: 1, Name: "Go"}, {ID: 2, Name: "SQL"}}}

	next, err := wizard.Apply(doc, wizard.Action{
		Type: wizard.ReplaceItems, Section: "skills",
		Items: []map[string]interface{}{{"id": int64(7), "skillName": "Rust"}},
	})
	require.NoError(t, err)
	require.Len(t, next.Skills, 1)
	assert.Equal(t, "Rust", next.Skills[0].Name)

	// nil items clears the section.
	next, err = wizard.Apply(next, wizard.Action{Type: wizard.ReplaceItems, Section: "skills"})
	require.NoError(t, err)
	assert.Empty(t, next.Skills)
}

func TestApply_ReplaceItemsSingletonTakesFirst(t *testing.T) {
	t.Parallel()

	next, err := wizard.Apply(&model.Document{}, wizard.Action{
		Type: wizard.ReplaceItems, Section: "summary",
		Items: []map[string]interface{}{{"statement": "Ships things."}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ships things.", next.Summary.Statement)

	cleared, err := wizard.Apply(next, wizard.Action{Type: wizard.ReplaceItems, Section: "summary"})
	require.NoError(t, err)
	assert.Empty(t, cleared.Summary.Statement)
}

func TestApply_ItemActionsOnFallbackSection(t *testing.T) {
	t.Parallel()

	next, err := wizard.Apply(&model.Document{}, wizard.Action{
		Type: wizard.AddItem, Section: "hobbies",
		Item: map[string]interface{}{"id": int64(1), "hobby": "chess"},
	})
	require.NoError(t, err)
	require.Len(t, next.Additional["hobbies"], 1)

	next, err = wizard.Apply(next, wizard.Action{
		Type: wizard.ReplaceItems, Section: "hobbies",
		Items: []map[string]interface{}{{"id": int64(2), "hobby": "climbing"}},
	})
	require.NoError(t, err)
	require.Len(t, next.Additional["hobbies"], 1)
	assert.Equal(t, "climbing", next.Additional["hobbies"][0]["hobby"])
}
