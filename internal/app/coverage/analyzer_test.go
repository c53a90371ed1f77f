package coverage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groweasy/lead-agent/internal/domain"
	"github.com/groweasy/lead-agent/internal/profile"
)

func transcriptOf(t *testing.T, contents ...string) *domain.Transcript {
	t.Helper()
	tr := domain.NewTranscript()
	role := domain.RoleUser
	for _, c := range contents {
		require.NoError(t, tr.Append(role, c, time.Now()))
		if role == domain.RoleUser {
			role = domain.RoleAssistant
		} else {
			role = domain.RoleUser
		}
	}
	return tr
}

func TestAnalyzeDetectsCriteria(t *testing.T) {
	a := NewAnalyzer(profile.Default().Criteria)

	tr := transcriptOf(t,
		"I'm looking for an apartment in Mumbai city",
		"Nice! What budget do you have in mind?",
		"Around 80 lakhs, moving in 6 months",
	)

	report := a.Analyze(tr)

	assert.True(t, report.Discussed["budget"])
	assert.True(t, report.Discussed["timeline"])
	assert.True(t, report.Discussed["location"])
	assert.True(t, report.Discussed["propertyType"])
	assert.Equal(t, 4, report.Count)
	assert.Empty(t, report.Missing)
}

func TestAnalyzeReportsMissing(t *testing.T) {
	a := NewAnalyzer(profile.Default().Criteria)

	tr := transcriptOf(t, "hello there")
	report := a.Analyze(tr)

	assert.Equal(t, 0, report.Count)
	assert.ElementsMatch(t, []string{"budget", "timeline", "location", "propertyType"}, report.Missing)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := NewAnalyzer(profile.Default().Criteria)
	tr := transcriptOf(t, "my budget is 50 lakhs for a flat in pune")

	first := a.Analyze(tr)
	second := a.Analyze(tr)

	assert.Equal(t, first, second)
}

func TestCoverageIsConversationWide(t *testing.T) {
	a := NewAnalyzer(profile.Default().Criteria)

	tr := transcriptOf(t, "budget is 50 lakhs")
	require.True(t, a.Analyze(tr).Discussed["budget"])

	// Later turns never un-cover a fact.
	require.NoError(t, tr.Append(domain.RoleAssistant, "noted!", time.Now()))
	require.NoError(t, tr.Append(domain.RoleUser, "actually forget that", time.Now()))
	assert.True(t, a.Analyze(tr).Discussed["budget"])
}

func TestInvalidPatternNeverMatches(t *testing.T) {
	a := NewAnalyzer([]domain.Criterion{
		{Name: "broken", Description: "bad regex", Pattern: "([", Required: true},
	})

	tr := transcriptOf(t, "anything at all")
	report := a.Analyze(tr)

	assert.False(t, report.Discussed["broken"])
	assert.Equal(t, []string{"broken"}, report.Missing)
}
