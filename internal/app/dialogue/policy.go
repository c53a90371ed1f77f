// Package dialogue holds the policy that picks the next conversational
// action: a scripted question, an acknowledgment, a generated open turn,
// or completion. The policy carries no mutable state of its own; every
// decision is recomputed from the transcript and the coverage report.
package dialogue

import (
	"strings"

	"github.com/groweasy/lead-agent/internal/app/coverage"
	"github.com/groweasy/lead-agent/internal/domain"
)

type Action string

const (
	ActionAskScripted Action = "ask_scripted"
	ActionGenerate    Action = "generate"
	ActionComplete    Action = "complete"
)

// Progress reports scripted-plan position to the caller.
type Progress struct {
	QuestionsAnswered int
	TotalQuestions    int
}

// Decision is the policy's verdict for one turn. For scripted questions,
// Acknowledgment (when non-empty) precedes Text in the emitted reply.
type Decision struct {
	Action         Action
	Acknowledgment string
	Text           string
	Options        []string
	QuestionType   domain.QuestionType
	Phase          domain.DialoguePhase
	Missing        []string
	Progress       *Progress
}

// genericClosing is the safe fallback emitted when configuration is
// missing or the scripted pointer runs past the plan.
const genericClosing = "Thank you for your time! Our team will review your requirements and get back to you shortly."

type Policy struct {
	mode    domain.EngineMode
	profile *domain.BusinessProfile
	hardCap int

	// closingMarkers in the last generated reply signal the model itself
	// decided to wrap up. Marker sniffing is noisy; the hard cap is the
	// real bound.
	closingMarkers []string
}

func NewPolicy(mode domain.EngineMode, profile *domain.BusinessProfile, hardCap int) *Policy {
	if hardCap <= 0 {
		hardCap = 16
	}
	return &Policy{
		mode:           mode,
		profile:        profile,
		hardCap:        hardCap,
		closingMarkers: []string{"thank", "contact", "wrap up"},
	}
}

func (p *Policy) Mode() domain.EngineMode {
	return p.mode
}

// FirstQuestion returns the opening scripted question, if the plan has one.
func (p *Policy) FirstQuestion() (domain.QuestionSpec, bool) {
	if p.profile == nil || len(p.profile.Questions) == 0 {
		return domain.QuestionSpec{}, false
	}
	return p.profile.Questions[0], true
}

// Decide computes the next action after a user turn has been appended.
// Missing configuration degrades to a generic closing rather than an
// error: continuing the dialogue beats failing it.
func (p *Policy) Decide(t *domain.Transcript, report coverage.Report) Decision {
	if p.profile == nil {
		return Decision{Action: ActionComplete, Text: genericClosing}
	}
	if p.mode == domain.ModeScripted {
		return p.decideScripted(t)
	}
	return p.decideNatural(t, report)
}

func (p *Policy) decideScripted(t *domain.Transcript) Decision {
	questions := p.profile.Questions
	answered := t.UserTurnCount()

	if len(questions) == 0 {
		return Decision{Action: ActionComplete, Text: genericClosing}
	}

	// Acknowledgment for the question the user just answered, when the
	// question defines a template. Each question carries its own step
	// count; there is no global divide-by-two pointer to go stale.
	var ack string
	if answered >= 1 && answered <= len(questions) {
		last := questions[answered-1]
		if last.AcknowledgmentTemplate != "" {
			if userTurn, ok := t.LastTurn(domain.RoleUser); ok {
				ack = renderAcknowledgment(last.AcknowledgmentTemplate, userTurn.Content)
			}
		}
	}

	if answered >= len(questions) {
		return Decision{
			Action:         ActionComplete,
			Acknowledgment: ack,
			Text:           genericClosing,
			Progress:       &Progress{QuestionsAnswered: len(questions), TotalQuestions: len(questions)},
		}
	}

	next := questions[answered]
	return Decision{
		Action:         ActionAskScripted,
		Acknowledgment: ack,
		Text:           next.Text,
		Options:        next.Options,
		QuestionType:   next.Type,
		Progress:       &Progress{QuestionsAnswered: answered, TotalQuestions: len(questions)},
	}
}

func (p *Policy) decideNatural(t *domain.Transcript, report coverage.Report) Decision {
	if p.complete(t, report) {
		return Decision{Action: ActionComplete, Text: genericClosing}
	}
	return Decision{
		Action:  ActionGenerate,
		Phase:   p.Phase(t, report),
		Missing: report.Missing,
	}
}

// complete is the natural-mode termination disjunction. Coverage and
// closing-marker sniffing are best-effort heuristics; the hard turn cap
// is the strict guarantee that the conversation is finite.
func (p *Policy) complete(t *domain.Transcript, report coverage.Report) bool {
	if t.Len() >= p.hardCap {
		return true
	}
	if p.requiredCovered(report) {
		return true
	}
	if reply, ok := t.LastTurn(domain.RoleAssistant); ok {
		lower := strings.ToLower(reply.Content)
		for _, marker := range p.closingMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// requiredCovered checks whether enough required criteria have been
// discussed: 3 when the deployment defines 3 or more, otherwise all.
func (p *Policy) requiredCovered(report coverage.Report) bool {
	required := p.profile.RequiredCriteria()
	if len(required) == 0 {
		return false
	}
	threshold := 3
	if len(required) < threshold {
		threshold = len(required)
	}
	covered := 0
	for _, c := range required {
		if report.Discussed[c.Name] {
			covered++
		}
	}
	return covered >= threshold
}

// Phase derives the dialogue phase from exchange count and coverage.
func (p *Policy) Phase(t *domain.Transcript, report coverage.Report) domain.DialoguePhase {
	exchanges := t.Len() / 2
	total := len(p.profile.Criteria)

	switch {
	case exchanges <= 2:
		return domain.PhaseOpening
	case exchanges <= 4:
		return domain.PhaseRapportBuilding
	case report.Count < 3:
		return domain.PhaseDiscovery
	case total > 0 && report.Count < total:
		return domain.PhaseDeepQualification
	default:
		return domain.PhaseClosing
	}
}

// renderAcknowledgment substitutes {answer} with the raw user answer,
// with double quotes neutralized so a template like
//
//	Great choice! "{answer}" it is.
//
// cannot be broken by a quoted answer.
func renderAcknowledgment(template, answer string) string {
	safe := strings.ReplaceAll(strings.TrimSpace(answer), `"`, "'")
	return strings.ReplaceAll(template, "{answer}", safe)
}
