// Package schema is the single source of truth for how résumé sections map
// onto storage: table names, id columns, the client↔column field dictionary,
// and which fields are integers or JSON-encoded lists. Both save and load go
// through the same registry so the two directions cannot drift.
package schema

import "strings"

type Cardinality int

const (
	List Cardinality = iota
	Singleton
)

// Section describes one résumé section's storage layout.
type Section struct {
	Key         string
	Table       string
	IDField     string
	Cardinality Cardinality

	// Fields maps client-side field names to storage column names.
	Fields map[string]string

	// IntegerFields and JSONFields name storage columns that are coerced to
	// integer-or-null, respectively encoded string lists, by the cleaner.
	IntegerFields []string
	JSONFields    []string

	// ContentFields are the client field names that make a list item worth
	// persisting: an item with none of them non-empty is dropped on extract.
	ContentFields []string
}

// Column resolves a client field name to its storage column. Unmapped names
// pass through unchanged so fallback sections still round-trip.
func (s Section) Column(clientField string) string {
	if col, ok := s.Fields[clientField]; ok {
		return col
	}
	return clientField
}

// ClientField is the inverse of Column.
func (s Section) ClientField(column string) string {
	for client, col := range s.Fields {
		if col == column {
			return client
		}
	}
	return column
}

// IsInteger reports whether the given storage column holds an integer.
func (s Section) IsInteger(column string) bool { return contains(s.IntegerFields, column) }

// IsJSON reports whether the given storage column holds an encoded list.
func (s Section) IsJSON(column string) bool { return contains(s.JSONFields, column) }

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

var registry = map[string]Section{
	"contact": {
		Key: "contact", Table: "rb_Contact", IDField: "contact_id", Cardinality: Singleton,
		Fields: map[string]string{
			"name": "name", "jobTitle": "job_title", "email": "email",
			"phone": "phone", "address": "address", "city": "city",
			"linkedin": "linkedin", "github": "github", "website": "website",
			"photo": "photo_url",
		},
		ContentFields: []string{"name", "jobTitle", "email", "phone"},
	},
	"experience": {
		Key: "experience", Table: "rb_Experience", IDField: "experience_id", Cardinality: List,
		Fields: map[string]string{
			"title": "title", "employer": "employer", "city": "city",
			"from": "from_date", "to": "to_date", "current": "is_current",
			"description": "description", "isFresher": "is_fresher",
		},
		ContentFields: []string{"title", "employer"},
	},
	"education": {
		Key: "education", Table: "rb_Education", IDField: "education_id", Cardinality: List,
		Fields: map[string]string{
			"degree": "degree", "school": "school", "field": "field_of_study",
			"from": "from_date", "to": "to_date", "grade": "grade",
			"description": "description",
		},
		ContentFields: []string{"degree", "school"},
	},
	"skills": {
		Key: "skills", Table: "rb_Skills", IDField: "skill_id", Cardinality: List,
		Fields: map[string]string{
			"skillName": "skill_name", "level": "level", "order": "sort_order",
		},
		IntegerFields: []string{"sort_order"},
		ContentFields: []string{"skillName"},
	},
	"projects": {
		Key: "projects", Table: "rb_Projects", IDField: "project_id", Cardinality: List,
		Fields: map[string]string{
			"title": "title", "description": "description",
			"skillsUsed": "skills_used", "link": "project_link",
			"from": "from_date", "to": "to_date",
			"clientName": "client_name", "teamSize": "team_size",
		},
		IntegerFields: []string{"team_size"},
		JSONFields:    []string{"skills_used"},
		ContentFields: []string{"title", "description"},
	},
	"declaration": {
		Key: "declaration", Table: "rb_Declaration", IDField: "declaration_id", Cardinality: Singleton,
		Fields: map[string]string{
			"text": "declaration_text", "place": "place",
			"date": "signed_date", "signature": "signature",
		},
		ContentFields: []string{"text"},
	},
	"summary": {
		Key: "summary", Table: "rb_Summary", IDField: "summary_id", Cardinality: Singleton,
		Fields:        map[string]string{"statement": "statement_text"},
		ContentFields: []string{"statement"},
	},
	"achievements": {
		Key: "achievements", Table: "rb_Achievements", IDField: "achievement_id", Cardinality: List,
		Fields:        map[string]string{"title": "title", "description": "description"},
		ContentFields: []string{"title", "description"},
	},
	"certifications": {
		Key: "certifications", Table: "rb_Certifications", IDField: "certification_id", Cardinality: List,
		Fields: map[string]string{
			"name": "name", "issuer": "issuer",
			"date": "issue_date", "url": "credential_url",
		},
		ContentFields: []string{"name"},
	},
	"awards": {
		Key: "awards", Table: "rb_Awards", IDField: "award_id", Cardinality: List,
		Fields: map[string]string{
			"title": "title", "issuer": "issuer",
			"date": "award_date", "description": "description",
		},
		ContentFields: []string{"title"},
	},
	"languages": {
		Key: "languages", Table: "rb_Languages", IDField: "language_id", Cardinality: List,
		Fields:        map[string]string{"language": "language_name", "proficiency": "proficiency"},
		ContentFields: []string{"language"},
	},
	"interests": {
		Key: "interests", Table: "rb_Interests", IDField: "interest_id", Cardinality: List,
		Fields:        map[string]string{"name": "interest_name"},
		ContentFields: []string{"name"},
	},
	"references": {
		Key: "references", Table: "rb_References", IDField: "reference_id", Cardinality: List,
		Fields: map[string]string{
			"name": "name", "relation": "relation",
			"company": "company", "contact": "contact_info",
		},
		ContentFields: []string{"name"},
	},
}

// Resolve returns the storage descriptor for a section key. Unknown keys get
// a deterministic convention (rb_<Title> table, <key>_id id column, empty
// dictionary) instead of an error, so unmapped future sections degrade
// gracefully rather than failing closed.
func Resolve(key string) Section {
	if s, ok := registry[key]; ok {
		return s
	}
	return Section{
		Key:         key,
		Table:       "rb_" + title(key),
		IDField:     key + "_id",
		Cardinality: List,
		Fields:      map[string]string{},
	}
}

// Known reports whether a key is in the registry.
func Known(key string) bool {
	_, ok := registry[key]
	return ok
}

// All returns the registered sections in a stable order. Migration DDL is
// generated from this.
func All() []Section {
	keys := []string{
		"contact", "experience", "education", "skills", "projects",
		"declaration", "summary", "achievements", "certifications",
		"awards", "languages", "interests", "references",
	}
	out := make([]Section, 0, len(keys))
	for _, k := range keys {
		out = append(out, registry[k])
	}
	return out
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
