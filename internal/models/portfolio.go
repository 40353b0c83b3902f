package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

type PersonalInfo struct {
	Name        string `json:"name"`
	ShortName   string `json:"shortName,omitempty"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	About       string `json:"about,omitempty"`
	Location    string `json:"location,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Github      string `json:"github,omitempty"`
	Linkedin    string `json:"linkedin,omitempty"`
	CGPA        string `json:"cgpa,omitempty"`
	Graduation  string `json:"graduation,omitempty"`
}

type SkillCategory struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

type Project struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle,omitempty"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	GithubURL    string   `json:"githubUrl,omitempty"`
	LiveURL      string   `json:"liveUrl,omitempty"`
	Year         string   `json:"year,omitempty"`
	Featured     bool     `json:"featured"`
}

type Experience struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location,omitempty"`
	Period      string   `json:"period"`
	Type        string   `json:"type,omitempty"`
	Description []string `json:"description"`
}

type Education struct {
	ID          int      `json:"id"`
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	Location    string   `json:"location,omitempty"`
	Period      string   `json:"period"`
	Grade       string   `json:"grade,omitempty"`
	Coursework  []string `json:"coursework,omitempty"`
}

// Certification may carry an uploaded attachment stored in the
// certificates bucket.
type Certification struct {
	ID              string   `json:"id,omitempty"`
	Title           string   `json:"title"`
	Issuer          string   `json:"issuer"`
	Year            string   `json:"year,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	VerificationURL string   `json:"verificationUrl,omitempty"`
	CertificateFile string   `json:"certificateFile,omitempty"`
	CertificateURL  string   `json:"certificateUrl,omitempty"`
}

type Achievement struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type FocusItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// PortfolioData is the full content aggregate. Sequence order is display
// order; there is no separate rank field.
type PortfolioData struct {
	PersonalInfo    PersonalInfo      `json:"personalInfo"`
	TechnicalSkills []SkillCategory   `json:"technicalSkills"`
	Projects        []Project         `json:"projects"`
	Experience      []Experience      `json:"experience"`
	Education       []Education       `json:"education"`
	Certifications  []Certification   `json:"certifications"`
	Achievements    []Achievement     `json:"achievements"`
	QuickFacts      map[string]string `json:"quickFacts"`
	CurrentFocus    []FocusItem       `json:"currentFocus"`
	Resumes         []Resume          `json:"resumes"`
	LastUpdated     time.Time         `json:"lastUpdated"`
}

// SectionValue returns the Go value stored under s.
func (p *PortfolioData) SectionValue(s Section) (any, error) {
	switch s {
	case SectionPersonalInfo:
		return p.PersonalInfo, nil
	case SectionTechnicalSkills:
		return p.TechnicalSkills, nil
	case SectionProjects:
		return p.Projects, nil
	case SectionExperience:
		return p.Experience, nil
	case SectionEducation:
		return p.Education, nil
	case SectionCertifications:
		return p.Certifications, nil
	case SectionAchievements:
		return p.Achievements, nil
	case SectionQuickFacts:
		return p.QuickFacts, nil
	case SectionCurrentFocus:
		return p.CurrentFocus, nil
	case SectionResumes:
		return p.Resumes, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnknownSection, s)
}

// SectionJSON encodes the section s.
func (p *PortfolioData) SectionJSON(s Section) (json.RawMessage, error) {
	v, err := p.SectionValue(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// SetSection replaces section s with raw. The previous value is fully
// replaced, never merged. A malformed resumes section is normalized to an
// empty list instead of failing.
func (p *PortfolioData) SetSection(s Section, raw json.RawMessage) error {
	var err error
	switch s {
	case SectionPersonalInfo:
		var v PersonalInfo
		if err = json.Unmarshal(raw, &v); err == nil {
			p.PersonalInfo = v
		}
	case SectionTechnicalSkills:
		var v []SkillCategory
		if err = json.Unmarshal(raw, &v); err == nil {
			p.TechnicalSkills = v
		}
	case SectionProjects:
		var v []Project
		if err = json.Unmarshal(raw, &v); err == nil {
			p.Projects = v
		}
	case SectionExperience:
		var v []Experience
		if err = json.Unmarshal(raw, &v); err == nil {
			p.Experience = v
		}
	case SectionEducation:
		var v []Education
		if err = json.Unmarshal(raw, &v); err == nil {
			p.Education = v
		}
	case SectionCertifications:
		var v []Certification
		if err = json.Unmarshal(raw, &v); err == nil {
			p.Certifications = v
		}
	case SectionAchievements:
		var v []Achievement
		if err = json.Unmarshal(raw, &v); err == nil {
			p.Achievements = v
		}
	case SectionQuickFacts:
		var v map[string]string
		if err = json.Unmarshal(raw, &v); err == nil {
			p.QuickFacts = v
		}
	case SectionCurrentFocus:
		var v []FocusItem
		if err = json.Unmarshal(raw, &v); err == nil {
			p.CurrentFocus = v
		}
	case SectionResumes:
		p.Resumes = NormalizeResumes(raw)
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownSection, s)
	}
	if err != nil {
		return fmt.Errorf("decode section %s: %w", s, err)
	}
	return nil
}

// IsEmpty reports whether p carries no content at all.
func (p *PortfolioData) IsEmpty() bool {
	return p.PersonalInfo == (PersonalInfo{}) &&
		len(p.TechnicalSkills) == 0 &&
		len(p.Projects) == 0 &&
		len(p.Experience) == 0 &&
		len(p.Education) == 0 &&
		len(p.Certifications) == 0 &&
		len(p.Achievements) == 0 &&
		len(p.QuickFacts) == 0 &&
		len(p.CurrentFocus) == 0 &&
		len(p.Resumes) == 0
}

// FromRecords assembles PortfolioData from store rows. LastUpdated is the
// newest row timestamp. Rows that fail to decode are skipped and reported
// in the returned error; the data built from the remaining rows is still
// returned.
func FromRecords(records []*SectionRecord) (*PortfolioData, error) {
	p := &PortfolioData{Resumes: []Resume{}}
	var errs []error
	for _, r := range records {
		if err := p.SetSection(r.Section, r.Data); err != nil {
			errs = append(errs, err)
			continue
		}
		if r.UpdatedAt.After(p.LastUpdated) {
			p.LastUpdated = r.UpdatedAt
		}
	}
	return p, errors.Join(errs...)
}

// ValidateIdentifiers checks that ids are unique within every sequence
// section that carries them.
func (p *PortfolioData) ValidateIdentifiers() error {
	if err := uniqueInts(SectionProjects, len(p.Projects), func(i int) int { return p.Projects[i].ID }); err != nil {
		return err
	}
	if err := uniqueInts(SectionExperience, len(p.Experience), func(i int) int { return p.Experience[i].ID }); err != nil {
		return err
	}
	if err := uniqueInts(SectionEducation, len(p.Education), func(i int) int { return p.Education[i].ID }); err != nil {
		return err
	}
	if err := uniqueStrings(SectionCertifications, len(p.Certifications), func(i int) string { return p.Certifications[i].ID }); err != nil {
		return err
	}
	if err := uniqueStrings(SectionAchievements, len(p.Achievements), func(i int) string { return p.Achievements[i].ID }); err != nil {
		return err
	}
	return uniqueStrings(SectionResumes, len(p.Resumes), func(i int) string { return p.Resumes[i].ID })
}

func uniqueInts(s Section, n int, id func(int) int) error {
	seen := make(map[int]struct{}, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%w: duplicate id %d in %s", common.ErrValidation, v, s)
		}
		seen[v] = struct{}{}
	}
	return nil
}

// uniqueStrings ignores empty ids; those sections treat the id as optional.
func uniqueStrings(s Section, n int, id func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%w: duplicate id %q in %s", common.ErrValidation, v, s)
		}
		seen[v] = struct{}{}
	}
	return nil
}
