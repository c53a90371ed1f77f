// Package conversation wires the qualification engine together: one
// Engine instance drives one conversation, turn by turn, from greeting
// to classification.
package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/groweasy/lead-agent/internal/app/classify"
	"github.com/groweasy/lead-agent/internal/app/coverage"
	"github.com/groweasy/lead-agent/internal/app/dialogue"
	"github.com/groweasy/lead-agent/internal/app/leads"
	"github.com/groweasy/lead-agent/internal/app/prompt"
	"github.com/groweasy/lead-agent/internal/app/sanitize"
	"github.com/groweasy/lead-agent/internal/domain"
	"github.com/groweasy/lead-agent/internal/observability"
)

// fallbackQuestion keeps the dialogue moving when a generated reply
// sanitizes down to nothing.
const fallbackQuestion = "Could you tell me a bit more about what you're looking for?"

// Options configures one Engine.
type Options struct {
	Mode    domain.EngineMode
	Profile *domain.BusinessProfile

	Generator domain.Generator
	LeadSink  domain.LeadSink

	HardTurnCap     int
	MaxInputChars   int
	ReplyCharCap    int
	ReplyCharFloor  int
	MaxOutputTokens int

	Now func() time.Time
}

// Engine owns exactly one conversation. It holds no locks: the caller
// must process turns for one Engine strictly sequentially, and each
// concurrent conversation needs its own instance.
type Engine struct {
	transcript *domain.Transcript
	profile    *domain.BusinessProfile

	policy    *dialogue.Policy
	analyzer  *coverage.Analyzer
	gen       domain.Generator
	sanitizer *sanitize.Sanitizer

	classifier *classify.Classifier
	recorder   *leads.Recorder

	now             func() time.Time
	maxInputChars   int
	maxOutputTokens int32

	complete       bool
	classification *domain.Classification
	closingReply   string
	leadRecorded   bool
}

func NewEngine(opts Options) *Engine {
	profile := opts.Profile
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	maxInput := opts.MaxInputChars
	if maxInput <= 0 {
		maxInput = 1000
	}
	maxOut := opts.MaxOutputTokens
	if maxOut <= 0 {
		maxOut = 300
	}

	var criteria []domain.Criterion
	if profile != nil {
		criteria = profile.Criteria
	}

	return &Engine{
		transcript:      domain.NewTranscript(),
		profile:         profile,
		policy:          dialogue.NewPolicy(opts.Mode, profile, opts.HardTurnCap),
		analyzer:        coverage.NewAnalyzer(criteria),
		gen:             opts.Generator,
		sanitizer:       sanitize.New(opts.ReplyCharCap, opts.ReplyCharFloor),
		classifier:      classify.New(opts.Generator, profile),
		recorder:        leads.NewRecorder(opts.LeadSink),
		now:             now,
		maxInputChars:   maxInput,
		maxOutputTokens: int32(maxOut),
	}
}

// TurnResult is the per-turn response handed back to the caller.
type TurnResult struct {
	Reply            string
	IsComplete       bool
	Classification   *domain.Classification
	Progress         *dialogue.Progress
	Options          []string
	QuestionType     domain.QuestionType
	TranscriptLength int
	LeadRecorded     bool
}

// Start opens the conversation with the configured greeting; in scripted
// mode the first question is asked in the same breath.
func (e *Engine) Start() *TurnResult {
	greeting := "Hello! How can I help you today?"
	if e.profile != nil && e.profile.Greeting != "" {
		greeting = e.profile.Greeting
	}

	result := &TurnResult{Reply: greeting}
	if e.policy.Mode() == domain.ModeScripted {
		if q, ok := e.policy.FirstQuestion(); ok {
			result.Reply = greeting + "\n\n" + q.Text
			result.Options = q.Options
			result.QuestionType = q.Type
			result.Progress = &dialogue.Progress{TotalQuestions: len(e.profile.Questions)}
		}
	}

	_ = e.transcript.Append(domain.RoleAssistant, result.Reply, e.now())
	result.TranscriptLength = e.transcript.Len()
	return result
}

// HandleMessage processes one user message end to end: validate, append,
// decide, reply (scripted or generated), and finalize with a
// classification once the policy declares completion.
//
// A generation failure aborts the turn: the optimistic user append is
// rolled back, no assistant turn is written, and the error surfaces to
// the caller as a *domain.GenerationError.
func (e *Engine) HandleMessage(ctx context.Context, text string) (*TurnResult, error) {
	log := observability.LoggerFromContext(ctx)

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &domain.ValidationError{Code: domain.CodeEmptyMessage, Message: "message cannot be empty"}
	}
	if len(trimmed) > e.maxInputChars {
		return nil, &domain.ValidationError{Code: domain.CodeMessageTooLong, Message: "message is too long"}
	}

	// After completion the conversation is sealed: repeated calls get the
	// same terminal message and classification back.
	if e.complete {
		return e.terminalResult(), nil
	}

	if err := e.transcript.Append(domain.RoleUser, trimmed, e.now()); err != nil {
		return nil, err
	}

	report := e.analyzer.Analyze(e.transcript)
	decision := e.policy.Decide(e.transcript, report)

	switch decision.Action {
	case dialogue.ActionAskScripted:
		return e.askScripted(decision), nil

	case dialogue.ActionGenerate:
		result, err := e.generateTurn(ctx, decision)
		if err != nil {
			e.transcript.TrimLastTurn()
			log.Error("generation failed, turn aborted", "error", err)
			return nil, err
		}
		return result, nil

	case dialogue.ActionComplete:
		return e.finalize(ctx, decision.Acknowledgment, decision.Progress, ""), nil

	default:
		// Unknown action: prefer a safe closing over a hard failure.
		log.Error("unknown policy action, closing conversation", "action", decision.Action)
		return e.finalize(ctx, "", nil, ""), nil
	}
}

func (e *Engine) askScripted(decision dialogue.Decision) *TurnResult {
	reply := joinReply(decision.Acknowledgment, decision.Text)
	_ = e.transcript.Append(domain.RoleAssistant, reply, e.now())

	return &TurnResult{
		Reply:            reply,
		Progress:         decision.Progress,
		Options:          decision.Options,
		QuestionType:     decision.QuestionType,
		TranscriptLength: e.transcript.Len(),
	}
}

func (e *Engine) generateTurn(ctx context.Context, decision dialogue.Decision) (*TurnResult, error) {
	promptText := prompt.BuildConversation(e.transcript, e.profile, decision.Phase, decision.Missing)

	raw, err := e.gen.Generate(ctx, promptText, domain.GenerateOptions{
		MaxOutputTokens: e.maxOutputTokens,
		Temperature:     0.7,
	})
	if err != nil {
		return nil, err
	}

	reply := e.sanitizer.Clean(raw)
	if reply == "" {
		reply = fallbackQuestion
	}
	_ = e.transcript.Append(domain.RoleAssistant, reply, e.now())

	// The generated reply itself can complete the conversation (closing
	// marker, coverage reached, hard cap): re-evaluate before returning.
	report := e.analyzer.Analyze(e.transcript)
	if next := e.policy.Decide(e.transcript, report); next.Action == dialogue.ActionComplete {
		return e.finalize(ctx, "", nil, reply), nil
	}

	return &TurnResult{
		Reply:            reply,
		TranscriptLength: e.transcript.Len(),
	}, nil
}

// finalize classifies the conversation (exactly once), emits the
// category's closing message unless a generated reply already closed the
// turn, and hands the lead to the recorder.
func (e *Engine) finalize(ctx context.Context, ack string, progress *dialogue.Progress, generatedReply string) *TurnResult {
	e.classification = e.classifier.Classify(ctx, e.transcript)
	e.complete = true

	reply := generatedReply
	if reply == "" {
		closing := e.closingMessage()
		reply = joinReply(ack, closing)
		_ = e.transcript.Append(domain.RoleAssistant, reply, e.now())
	}
	e.closingReply = reply

	e.leadRecorded = e.recorder.Record(ctx, e.transcript, e.classification)

	return &TurnResult{
		Reply:            reply,
		IsComplete:       true,
		Classification:   e.classification,
		Progress:         progress,
		TranscriptLength: e.transcript.Len(),
		LeadRecorded:     e.leadRecorded,
	}
}

func (e *Engine) closingMessage() string {
	if e.profile == nil {
		return "Thank you for your time! Our team will be in touch with you shortly."
	}
	status := domain.StatusInvalid
	if e.classification != nil {
		status = e.classification.Status
	}
	return e.profile.ClosingMessage(status)
}

func (e *Engine) terminalResult() *TurnResult {
	return &TurnResult{
		Reply:            e.closingReply,
		IsComplete:       true,
		Classification:   e.classification,
		TranscriptLength: e.transcript.Len(),
		LeadRecorded:     e.leadRecorded,
	}
}

// Transcript exposes the conversation log for read-only use by the
// transport layer.
func (e *Engine) Transcript() *domain.Transcript {
	return e.transcript
}

// IsComplete reports whether the conversation has been classified.
func (e *Engine) IsComplete() bool {
	return e.complete
}

// Reset clears the conversation back to its initial state. The caller is
// expected to Start() again afterwards.
func (e *Engine) Reset() {
	e.transcript.Reset()
	e.complete = false
	e.classification = nil
	e.closingReply = ""
	e.leadRecorded = false
}

func joinReply(ack, text string) string {
	if ack == "" {
		return text
	}
	if text == "" {
		return ack
	}
	return ack + "\n\n" + text
}
