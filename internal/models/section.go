// Package models holds the portfolio content aggregate shared by the server
// and the admin client: the named sections, resume records and blob listing
// metadata.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

// Section names an independently persisted slice of PortfolioData.
type Section string

const (
	SectionPersonalInfo    Section = "personalInfo"
	SectionTechnicalSkills Section = "technicalSkills"
	SectionProjects        Section = "projects"
	SectionExperience      Section = "experience"
	SectionEducation       Section = "education"
	SectionCertifications  Section = "certifications"
	SectionAchievements    Section = "achievements"
	SectionQuickFacts      Section = "quickFacts"
	SectionCurrentFocus    Section = "currentFocus"
	SectionResumes         Section = "resumes"
)

// BulkSections is the fixed list written by a whole-document save.
// Resumes are owned by the resume endpoints and never bulk-written.
func BulkSections() []Section {
	return []Section{
		SectionPersonalInfo,
		SectionTechnicalSkills,
		SectionProjects,
		SectionExperience,
		SectionEducation,
		SectionCertifications,
		SectionAchievements,
		SectionQuickFacts,
		SectionCurrentFocus,
	}
}

// Sections lists every known section in display order.
func Sections() []Section {
	return append(BulkSections(), SectionResumes)
}

// ParseSection maps a section name to a Section.
func ParseSection(name string) (Section, error) {
	for _, s := range Sections() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownSection, name)
}

// SectionRecord is one row of the structured data store.
type SectionRecord struct {
	Section   Section         `json:"section"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
