package model

import (
	"time"

	"github.com/google/uuid"
)

// Document is the canonical nested résumé shape the wizard edits. JSON tags
// use the client-side field names; the transform package maps them to storage
// columns through the section schema registry.

type Contact struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	JobTitle string `json:"jobTitle"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

type Experience struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Employer    string `json:"employer"`
	City        string `json:"city,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
	IsFresher   bool   `json:"isFresher,omitempty"`
}

type Education struct {
	ID          int64  `json:"id,omitempty"`
	Degree      string `json:"degree"`
	School      string `json:"school"`
	Field       string `json:"field,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Grade       string `json:"grade,omitempty"`
	Description string `json:"description,omitempty"`
}

type Skill struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"skillName"`
	Level string `json:"level,omitempty"`
	Order int    `json:"order,omitempty"`
}

type Project struct {
	ID          int64    `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	SkillsUsed  []string `json:"skillsUsed,omitempty"`
	Link        string   `json:"link,omitempty"`
	From        string   `json:"from,omitempty"`
	To          string   `json:"to,omitempty"`
	ClientName  string   `json:"clientName,omitempty"`
	TeamSize    int      `json:"teamSize,omitempty"`
}

type Declaration struct {
	ID        int64  `json:"id,omitempty"`
	Text      string `json:"text"`
	Place     string `json:"place,omitempty"`
	Date      string `json:"date,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// Summary is the personal-statement section backing the wizard's Summary step.
type Summary struct {
	ID        int64  `json:"id,omitempty"`
	Statement string `json:"statement"`
}

type Achievement struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Certification struct {
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty"`
}

type Award struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

type Language struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`
}

type Interest struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

type Reference struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Relation string `json:"relation,omitempty"`
	Company  string `json:"company,omitempty"`
	Contact  string `json:"contact,omitempty"`
}

type Document struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	Name       string    `json:"name"`
	TemplateID string    `json:"templateId"`
	Completion int       `json:"completion"`
	IsFresher  bool      `json:"isFresher"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Sections lists the section keys enabled for this résumé.
	Sections []string `json:"sections"`

	Contact     Contact     `json:"contact"`
	Summary     Summary     `json:"summary"`
	Declaration Declaration `json:"declaration"`

	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Projects       []Project       `json:"projects"`
	Achievements   []Achievement   `json:"achievements"`
	Certifications []Certification `json:"certifications"`
	Awards         []Award         `json:"awards"`
	Languages      []Language      `json:"languages"`
	Interests      []Interest      `json:"interests"`
	References     []Reference     `json:"references"`

	// Additional holds items for section keys that have no typed slot yet.
	// They round-trip through the mapper's fallback naming convention.
	Additional map[string][]map[string]interface{} `json:"additional,omitempty"`
}

// NewDocument returns an empty Document for a fresh résumé. Every declared
// section is present so callers never see a nil singleton.
func NewDocument(id, userID uuid.UUID, name, templateID string, sections []string) *Document {
	return &Document{
		ID:         id,
		UserID:     userID,
		Name:       name,
		TemplateID: templateID,
		Sections:   sections,
		UpdatedAt:  time.Now().UTC(),
	}
}

// HasSection reports whether the given section key is enabled.
func (d *Document) HasSection(key string) bool {
	for _, s := range d.Sections {
		if s == key {
			return true
		}
	}
	return false
}
