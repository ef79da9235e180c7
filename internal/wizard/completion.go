// Package wizard owns the wizard-side state machine over the Document: the
// fixed step list with its validity predicates, the derived completion
// percentage, and the closed set of mutations the frontend can apply.
package wizard

import (
	"math"
	"regexp"
	"strings"

	"resume-builder/internal/model"
)

// The primary wizard has exactly these seven steps, in this order.
const (
	StepBasics      = "basics"
	StepSkills      = "skills"
	StepExperience  = "experience"
	StepProjects    = "projects"
	StepSummary     = "summary"
	StepEducation   = "education"
	StepDeclaration = "declaration"
)

// Steps returns the fixed ordered step list.
func Steps() []string {
	return []string{
		StepBasics, StepSkills, StepExperience, StepProjects,
		StepSummary, StepEducation, StepDeclaration,
	}
}

// Progress is the derived completion state. It is recomputed from the live
// Document on every mutation — a step is never marked valid independently of
// its predicate, so the displayed percentage cannot drift from content.
type Progress struct {
	Steps   map[string]bool `json:"steps"`
	Valid   int             `json:"valid"`
	Percent int             `json:"percent"`
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[+]?[\d\s().-]{7,20}$`)
)

// Compute evaluates every step predicate against the Document and derives
// the 0-100 completion percentage.
func Compute(doc *model.Document) Progress {
	steps := Steps()
	p := Progress{Steps: make(map[string]bool, len(steps))}
	for _, s := range steps {
		ok := stepValid(s, doc)
		p.Steps[s] = ok
		if ok {
			p.Valid++
		}
	}
	p.Percent = int(math.Round(100 * float64(p.Valid) / float64(len(steps))))
	return p
}

func stepValid(step string, doc *model.Document) bool {
	switch step {
	case StepBasics:
		c := doc.Contact
		return c.Name != "" && c.JobTitle != "" && ValidEmail(c.Email) && ValidPhone(c.Phone)
	case StepSkills:
		for _, s := range doc.Skills {
			if strings.TrimSpace(s.Name) != "" {
				return true
			}
		}
		return false
	case StepExperience:
		// Freshers have no experience to enter; the step is satisfied by the
		// flag itself.
		return doc.IsFresher || len(doc.Experience) > 0
	case StepProjects:
		for _, p := range doc.Projects {
			if p.Title != "" || p.Description != "" {
				return true
			}
		}
		return false
	case StepSummary:
		return strings.TrimSpace(doc.Summary.Statement) != ""
	case StepEducation:
		for _, e := range doc.Education {
			if e.Degree != "" || e.School != "" {
				return true
			}
		}
		return false
	case StepDeclaration:
		return strings.TrimSpace(doc.Declaration.Text) != ""
	default:
		return false
	}
}

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidPhone accepts digits with the usual separators, 7-20 characters.
func ValidPhone(s string) bool { return phoneRe.MatchString(strings.TrimSpace(s)) }
