package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSection(t *testing.T) {
	s, err := ParseSection("projects")
	require.NoError(t, err)
	assert.Equal(t, SectionProjects, s)

	_, err = ParseSection("secrets")
	require.ErrorIs(t, err, common.ErrUnknownSection)
}

func TestBulkSections_ExcludeResumes(t *testing.T) {
	assert.NotContains(t, BulkSections(), SectionResumes)
	assert.Contains(t, Sections(), SectionResumes)
	assert.Len(t, Sections(), len(BulkSections())+1)
}

func TestSetSection_ReplacesValue(t *testing.T) {
	p := &PortfolioData{Projects: []Project{{ID: 1, Title: "old"}}}

	require.NoError(t, p.SetSection(SectionProjects, json.RawMessage(`[{"id":2,"title":"new"}]`)))
	require.Len(t, p.Projects, 1)
	assert.Equal(t, 2, p.Projects[0].ID)

	require.NoError(t, p.SetSection(SectionProjects, json.RawMessage(`[]`)))
	assert.Empty(t, p.Projects)
}

func TestSetSection_Errors(t *testing.T) {
	p := &PortfolioData{}
	require.ErrorIs(t, p.SetSection("nope", json.RawMessage(`{}`)), common.ErrUnknownSection)
	require.Error(t, p.SetSection(SectionProjects, json.RawMessage(`{"id":1}`)))

	require.NoError(t, p.SetSection(SectionResumes, json.RawMessage(`"garbage"`)))
	assert.NotNil(t, p.Resumes)
}

func TestSectionJSON_RoundTrip(t *testing.T) {
	p := &PortfolioData{QuickFacts: map[string]string{"cgpa": "9.1"}}
	raw, err := p.SectionJSON(SectionQuickFacts)
	require.NoError(t, err)

	q := &PortfolioData{}
	require.NoError(t, q.SetSection(SectionQuickFacts, raw))
	assert.Equal(t, p.QuickFacts, q.QuickFacts)

	_, err = p.SectionJSON("nope")
	require.Error(t, err)
}

func TestFromRecords_LastUpdatedIsMax(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	p, err := FromRecords([]*SectionRecord{
		{Section: SectionProjects, Data: json.RawMessage(`[{"id":1,"title":"a"}]`), UpdatedAt: t1},
		{Section: SectionPersonalInfo, Data: json.RawMessage(`{"name":"N","title":"T"}`), UpdatedAt: t2},
	})
	require.NoError(t, err)
	assert.Equal(t, t2, p.LastUpdated)
	assert.Equal(t, "N", p.PersonalInfo.Name)
	assert.NotNil(t, p.Resumes)
}

func TestFromRecords_SkipsBadRows(t *testing.T) {
	p, err := FromRecords([]*SectionRecord{
		{Section: SectionProjects, Data: json.RawMessage(`{"broken":true}`)},
		{Section: SectionAchievements, Data: json.RawMessage(`[{"title":"x","description":"y"}]`)},
	})
	require.Error(t, err)
	assert.Len(t, p.Achievements, 1)
	assert.Empty(t, p.Projects)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, (&PortfolioData{}).IsEmpty())
	assert.False(t, (&PortfolioData{Projects: []Project{{ID: 1}}}).IsEmpty())
}

func TestValidateIdentifiers(t *testing.T) {
	ok := &PortfolioData{
		Projects:     []Project{{ID: 1}, {ID: 2}},
		Achievements: []Achievement{{Title: "a"}, {Title: "b"}},
		Resumes:      []Resume{{ID: "r1"}, {ID: "r2"}},
	}
	require.NoError(t, ok.ValidateIdentifiers())

	dup := &PortfolioData{Experience: []Experience{{ID: 3}, {ID: 3}}}
	err := dup.ValidateIdentifiers()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))

	dupResume := &PortfolioData{Resumes: []Resume{{ID: "x"}, {ID: "x"}}}
	require.ErrorIs(t, dupResume.ValidateIdentifiers(), common.ErrValidation)
}
