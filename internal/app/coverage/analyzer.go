// Package coverage decides which qualification criteria a conversation
// has already touched on. Detection is a cheap keyword heuristic over the
// whole transcript, not entity extraction: false positives and negatives
// are accepted, and the dialogue policy's hard turn cap covers for both.
package coverage

import (
	"regexp"
	"sync"

	"github.com/groweasy/lead-agent/internal/domain"
	"github.com/groweasy/lead-agent/internal/observability"
)

// Report says, per criterion, whether the conversation has mentioned it
// anywhere. Recomputed fresh on every turn; a fact once covered stays
// covered because detection runs over the full transcript.
type Report struct {
	Discussed map[string]bool
	Count     int
	Missing   []string
}

// Analyzer evaluates a fixed criterion table against transcripts.
type Analyzer struct {
	criteria []domain.Criterion

	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
}

func NewAnalyzer(criteria []domain.Criterion) *Analyzer {
	return &Analyzer{
		criteria: criteria,
		compiled: make(map[string]*regexp.Regexp),
	}
}

func (a *Analyzer) Criteria() []domain.Criterion {
	return a.criteria
}

// Analyze matches every criterion predicate against the lowercased
// transcript blob. It is a pure function of the transcript content:
// identical transcripts always produce identical reports.
func (a *Analyzer) Analyze(t *domain.Transcript) Report {
	blob := t.JoinedLower()

	report := Report{Discussed: make(map[string]bool, len(a.criteria))}
	for _, c := range a.criteria {
		hit := a.matches(c, blob)
		report.Discussed[c.Name] = hit
		if hit {
			report.Count++
		} else {
			report.Missing = append(report.Missing, c.Name)
		}
	}
	return report
}

func (a *Analyzer) matches(c domain.Criterion, blob string) bool {
	re := a.pattern(c)
	if re == nil {
		return false
	}
	return re.MatchString(blob)
}

func (a *Analyzer) pattern(c domain.Criterion) *regexp.Regexp {
	a.mu.Lock()
	defer a.mu.Unlock()

	if re, ok := a.compiled[c.Name]; ok {
		return re
	}
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		observability.Logger().Error("invalid criterion pattern, criterion will never match",
			"criterion", c.Name, "pattern", c.Pattern, "error", err)
		re = nil
	}
	a.compiled[c.Name] = re
	return re
}
