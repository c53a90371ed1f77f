package domain

// Criterion is one qualification dimension the dialogue must elicit
// (budget, timeline, ...). The Pattern is a regular expression matched
// against the lowercased transcript blob by the coverage analyzer.
// Criteria are configuration data, read-only to the engine.
type Criterion struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	Required    bool   `yaml:"required" json:"required"`
}

type QuestionType string

const (
	QuestionFreeText    QuestionType = "text"
	QuestionFixedChoice QuestionType = "buttons"
)

// QuestionSpec is one entry of the scripted question plan.
type QuestionSpec struct {
	ID       string       `yaml:"id" json:"id"`
	Text     string       `yaml:"text" json:"text"`
	Type     QuestionType `yaml:"type" json:"type"`
	Options  []string     `yaml:"options,omitempty" json:"options,omitempty"`
	Required bool         `yaml:"required" json:"required"`

	// AcknowledgmentTemplate, when set, is emitted after the user answers
	// this question, with {answer} replaced by the raw answer text.
	AcknowledgmentTemplate string `yaml:"acknowledgment,omitempty" json:"acknowledgment,omitempty"`
}

// AgentPersona describes the voice the prompt builder writes in.
type AgentPersona struct {
	Name           string `yaml:"name" json:"name"`
	Role           string `yaml:"role" json:"role"`
	Experience     string `yaml:"experience" json:"experience"`
	Specialization string `yaml:"specialization" json:"specialization"`
	Personality    string `yaml:"personality" json:"personality"`
}

// CategorySpec pairs a classification category with the closing message
// shown to the user when a lead lands in it.
type CategorySpec struct {
	Message string `yaml:"message" json:"message"`
}

// BusinessProfile is the static configuration driving one deployment:
// what to ask, what qualifies a lead, and how to talk. The engine treats
// it as already validated.
type BusinessProfile struct {
	CompanyName    string `yaml:"companyName" json:"companyName"`
	Industry       string `yaml:"industry" json:"industry"`
	TargetAudience string `yaml:"targetAudience" json:"targetAudience"`
	Greeting       string `yaml:"greeting" json:"greeting"`

	Questions []QuestionSpec `yaml:"questions" json:"questions"`
	Criteria  []Criterion    `yaml:"qualificationCriteria" json:"qualificationCriteria"`

	Classification map[string]CategorySpec `yaml:"classification" json:"classification"`

	AgentPersona       *AgentPersona     `yaml:"agentPersona,omitempty" json:"agentPersona,omitempty"`
	MarketIntelligence map[string]string `yaml:"marketIntelligence,omitempty" json:"marketIntelligence,omitempty"`
}

// RequiredCriteria filters the criterion list down to required entries.
func (p *BusinessProfile) RequiredCriteria() []Criterion {
	var out []Criterion
	for _, c := range p.Criteria {
		if c.Required {
			out = append(out, c)
		}
	}
	return out
}

// ClosingMessage returns the configured closing line for a status, or a
// generic fallback when the profile does not define one.
func (p *BusinessProfile) ClosingMessage(status ClassificationStatus) string {
	if spec, ok := p.Classification[string(status)]; ok && spec.Message != "" {
		return spec.Message
	}
	return "Thank you for your time! Our team will be in touch with you shortly."
}
