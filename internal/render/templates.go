package render

import (
	"fmt"
	"strings"

	"resume-builder/internal/model"
)

// Template is the rendering adapter contract: a pure function from the
// canonical Document to a presentation tree. Templates receive the Document
// and nothing else.
type Template interface {
	ID() string
	Render(doc *model.Document) *Node
}

var templates = map[string]Template{
	"modern":  modernTemplate{},
	"classic": classicTemplate{},
	"elegant": elegantTemplate{},
	"compact": compactTemplate{},
}

// DefaultTemplateID is used when a résumé carries no or an unknown template.
const DefaultTemplateID = "modern"

// Lookup returns the template for id, falling back to the default.
func Lookup(id string) Template {
	if t, ok := templates[id]; ok {
		return t
	}
	return templates[DefaultTemplateID]
}

// Render renders doc with its chosen template.
func Render(doc *model.Document) *Node {
	return Lookup(doc.TemplateID).Render(doc)
}

// sectionBlocks builds the shared section sequence. The four templates vary
// layout and ordering, not semantics, so the per-section builders live here
// once.

func headerBlock(doc *model.Document, class string) *Node {
	h := El("header", class)
	c := doc.Contact
	if c.Name != "" {
		h.Append(Text("h1", "name", c.Name))
	}
	if c.JobTitle != "" {
		h.Append(Text("h2", "job-title", c.JobTitle))
	}
	contactLine := joinNonEmpty(" | ", c.Email, c.Phone, c.City, c.LinkedIn, c.Website)
	if contactLine != "" {
		h.Append(Text("p", "contact-line", contactLine))
	}
	return h
}

func summaryBlock(doc *model.Document) *Node {
	if !HasContent(doc.Summary) {
		return nil
	}
	return El("section", "summary",
		Text("h3", "heading", "Summary"),
		Text("p", "", doc.Summary.Statement),
	)
}

func skillsBlock(doc *model.Document) *Node {
	if !HasContent(doc.Skills) {
		return nil
	}
	list := El("ul", "skills-list")
	for _, s := range doc.Skills {
		if s.Name == "" {
			continue
		}
		label := s.Name
		if s.Level != "" {
			label += " (" + s.Level + ")"
		}
		list.Append(Text("li", "", label))
	}
	return El("section", "skills", Text("h3", "heading", "Skills"), list)
}

func experienceBlock(doc *model.Document) *Node {
	if doc.IsFresher || !HasContent(doc.Experience) {
		return nil
	}
	sec := El("section", "experience", Text("h3", "heading", "Experience"))
	for _, e := range doc.Experience {
		entry := El("div", "entry")
		entry.Append(Text("h4", "", joinNonEmpty(" — ", e.Title, e.Employer)))
		period := e.From
		if e.Current {
			period = joinNonEmpty(" – ", e.From, "Present")
		} else if e.To != "" {
			period = joinNonEmpty(" – ", e.From, e.To)
		}
		if period != "" {
			entry.Append(Text("span", "period", period))
		}
		if e.Description != "" {
			entry.Append(Text("p", "", e.Description))
		}
		sec.Append(entry)
	}
	return sec
}

func projectsBlock(doc *model.Document) *Node {
	if !HasContent(doc.Projects) {
		return nil
	}
	sec := El("section", "projects", Text("h3", "heading", "Projects"))
	for _, p := range doc.Projects {
		entry := El("div", "entry")
		entry.Append(Text("h4", "", p.Title))
		if p.Description != "" {
			entry.Append(Text("p", "", p.Description))
		}
		if len(p.SkillsUsed) > 0 {
			entry.Append(Text("p", "stack", strings.Join(p.SkillsUsed, ", ")))
		}
		meta := []string{}
		if p.ClientName != "" {
			meta = append(meta, "Client: "+p.ClientName)
		}
		if p.TeamSize > 0 {
			meta = append(meta, fmt.Sprintf("Team of %d", p.TeamSize))
		}
		if len(meta) > 0 {
			entry.Append(Text("p", "meta", strings.Join(meta, " · ")))
		}
		sec.Append(entry)
	}
	return sec
}

func educationBlock(doc *model.Document) *Node {
	if !HasContent(doc.Education) {
		return nil
	}
	sec := El("section", "education", Text("h3", "heading", "Education"))
	for _, e := range doc.Education {
		entry := El("div", "entry")
		entry.Append(Text("h4", "", joinNonEmpty(" — ", e.Degree, e.School)))
		if line := joinNonEmpty(" – ", e.From, e.To); line != "" {
			entry.Append(Text("span", "period", line))
		}
		if e.Grade != "" {
			entry.Append(Text("span", "grade", e.Grade))
		}
		sec.Append(entry)
	}
	return sec
}

func declarationBlock(doc *model.Document) *Node {
	if !HasContent(doc.Declaration) {
		return nil
	}
	sec := El("section", "declaration",
		Text("h3", "heading", "Declaration"),
		Text("p", "", doc.Declaration.Text),
	)
	if line := joinNonEmpty(", ", doc.Declaration.Place, doc.Declaration.Date); line != "" {
		sec.Append(Text("p", "sign-line", line))
	}
	return sec
}

func optionalBlocks(doc *model.Document) []*Node {
	var out []*Node
	if HasContent(doc.Achievements) {
		sec := El("section", "achievements", Text("h3", "heading", "Achievements"))
		for _, a := range doc.Achievements {
			sec.Append(Text("p", "", joinNonEmpty(" — ", a.Title, a.Description)))
		}
		out = append(out, sec)
	}
	if HasContent(doc.Certifications) {
		sec := El("section", "certifications", Text("h3", "heading", "Certifications"))
		for _, c := range doc.Certifications {
			sec.Append(Text("p", "", joinNonEmpty(" — ", c.Name, c.Issuer, c.Date)))
		}
		out = append(out, sec)
	}
	if HasContent(doc.Awards) {
		sec := El("section", "awards", Text("h3", "heading", "Awards"))
		for _, a := range doc.Awards {
			sec.Append(Text("p", "", joinNonEmpty(" — ", a.Title, a.Issuer, a.Date)))
		}
		out = append(out, sec)
	}
	if HasContent(doc.Languages) {
		sec := El("section", "languages", Text("h3", "heading", "Languages"))
		for _, l := range doc.Languages {
			sec.Append(Text("p", "", joinNonEmpty(" — ", l.Name, l.Proficiency)))
		}
		out = append(out, sec)
	}
	if HasContent(doc.Interests) {
		names := []string{}
		for _, i := range doc.Interests {
			if i.Name != "" {
				names = append(names, i.Name)
			}
		}
		out = append(out, El("section", "interests",
			Text("h3", "heading", "Interests"),
			Text("p", "", strings.Join(names, ", ")),
		))
	}
	if HasContent(doc.References) {
		sec := El("section", "references", Text("h3", "heading", "References"))
		for _, r := range doc.References {
			sec.Append(Text("p", "", joinNonEmpty(" — ", r.Name, r.Relation, r.Company, r.Contact)))
		}
		out = append(out, sec)
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func appendIfSome(root *Node, nodes ...*Node) {
	for _, n := range nodes {
		if n != nil {
			root.Append(n)
		}
	}
}

// modern: header on top, two-column body.
type modernTemplate struct{}

func (modernTemplate) ID() string { return "modern" }

func (modernTemplate) Render(doc *model.Document) *Node {
	root := El("div", "resume resume-modern")
	root.Append(headerBlock(doc, "header-modern"))
	left := El("div", "col col-left")
	appendIfSome(left, summaryBlock(doc), experienceBlock(doc), projectsBlock(doc))
	right := El("div", "col col-right")
	appendIfSome(right, skillsBlock(doc), educationBlock(doc))
	appendIfSome(right, optionalBlocks(doc)...)
	appendIfSome(right, declarationBlock(doc))
	root.Append(El("div", "body", left, right))
	return root
}

// classic: single column, traditional ordering.
type classicTemplate struct{}

func (classicTemplate) ID() string { return "classic" }

func (classicTemplate) Render(doc *model.Document) *Node {
	root := El("div", "resume resume-classic")
	root.Append(headerBlock(doc, "header-classic"))
	appendIfSome(root,
		summaryBlock(doc), experienceBlock(doc), educationBlock(doc),
		skillsBlock(doc), projectsBlock(doc),
	)
	appendIfSome(root, optionalBlocks(doc)...)
	appendIfSome(root, declarationBlock(doc))
	return root
}

// elegant: summary-led with a divider under the header.
type elegantTemplate struct{}

func (elegantTemplate) ID() string { return "elegant" }

func (elegantTemplate) Render(doc *model.Document) *Node {
	root := El("div", "resume resume-elegant")
	root.Append(headerBlock(doc, "header-elegant"), El("hr", ""))
	appendIfSome(root,
		summaryBlock(doc), skillsBlock(doc), experienceBlock(doc),
		projectsBlock(doc), educationBlock(doc),
	)
	appendIfSome(root, optionalBlocks(doc)...)
	appendIfSome(root, declarationBlock(doc))
	return root
}

// compact: dense single column, skills first.
type compactTemplate struct{}

func (compactTemplate) ID() string { return "compact" }

func (compactTemplate) Render(doc *model.Document) *Node {
	root := El("div", "resume resume-compact")
	root.Append(headerBlock(doc, "header-compact"))
	appendIfSome(root,
		skillsBlock(doc), experienceBlock(doc), projectsBlock(doc),
		educationBlock(doc), summaryBlock(doc),
	)
	appendIfSome(root, optionalBlocks(doc)...)
	appendIfSome(root, declarationBlock(doc))
	return root
}
