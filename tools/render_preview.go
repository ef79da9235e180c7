//go:build ignore

// Developer tool: renders a sample Document through a chosen template and
// writes the HTML page to stdout.
//
//	go run tools/render_preview.go -template classic > preview.html
package main

import (
	"flag"
	"fmt"
	"os"

	"resume-builder/internal/model"
	"resume-builder/internal/render"

	"github.com/google/uuid"
)

func main() {
	template := flag.String("template", render.DefaultTemplateID, "template id")
	flag.Parse()

	doc := model.NewDocument(uuid.New(), uuid.New(), "Sample Resume", *template,
		[]string{"contact", "skills", "experience", "projects", "summary", "education", "declaration"})
	doc.Contact = model.Contact{
		Name: "Jordan Blake", JobTitle: "Backend Engineer",
		Email: "jordan@example.com", Phone: "+1 555 010 2030", City: "Austin",
	}
	doc.Summary = model.Summary{Statement: "Backend engineer with six years of experience building data-heavy services."}
	doc.Skills = []model.Skill{{Name: "Go"}, {Name: "PostgreSQL"}, {Name: "Redis"}}
	doc.Experience = []model.Experience{{
		Title: "Senior Engineer", Employer: "Acme", From: "2020-01-01", Current: true,
		Description: "Own the billing pipeline end to end.",
	}}
	doc.Projects = []model.Project{{
		Title: "Invoice Engine", Description: "Batch invoicing with idempotent retries.",
		SkillsUsed: []string{"Go", "PostgreSQL"}, TeamSize: 4,
	}}
	doc.Education = []model.Education{{Degree: "BSc Computer Science", School: "UT Austin", From: "2012", To: "2016"}}
	doc.Declaration = model.Declaration{Text: "I hereby declare the above to be accurate.", Place: "Austin", Date: "2025-06-01"}

	page := render.Page(doc.Name, render.Render(doc))
	if _, err := fmt.Fprintln(os.Stdout, page); err != nil {
		os.Exit(1)
	}
}
