// Package prompt renders dialogue state into the text prompts sent to
// the generation service. Builders are pure functions: same transcript,
// profile and phase always produce the same prompt.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/groweasy/lead-agent/internal/domain"
)

const styleConstraints = `
RESPONSE GUIDELINES:
- Keep responses short (2-3 sentences maximum).
- Be conversational and friendly, not formal or verbose.
- Ask ONE clear question at a time.
- Respond naturally to what the client said.
- NEVER include instructional notes, stage directions or meta-commentary.
`

// transcriptDelimiter fences the raw conversation off from the
// instruction grammar. User text is only ever embedded between these
// fences, never interpolated into instructions, so adversarial input
// (braces, the word JSON, fake directives) cannot corrupt the prompt
// structure.
const transcriptDelimiter = "---"

var defaultPersona = domain.AgentPersona{
	Name:           "Priya",
	Role:           "senior real estate consultant",
	Experience:     "8+ years in real estate",
	Specialization: "residential properties",
	Personality:    "warm, knowledgeable and genuinely helpful",
}

func persona(profile *domain.BusinessProfile) domain.AgentPersona {
	if profile != nil && profile.AgentPersona != nil {
		p := *profile.AgentPersona
		if p.Name == "" {
			p.Name = defaultPersona.Name
		}
		if p.Role == "" {
			p.Role = defaultPersona.Role
		}
		if p.Experience == "" {
			p.Experience = defaultPersona.Experience
		}
		return p
	}
	return defaultPersona
}

// BuildConversation renders the free-form generation prompt: persona,
// style constraints, phase guidance, market knowledge and the fenced
// transcript, closed by the one-question instruction.
func BuildConversation(
	t *domain.Transcript,
	profile *domain.BusinessProfile,
	phase domain.DialoguePhase,
	missing []string,
) string {
	p := persona(profile)

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s with %s.", p.Name, p.Role, p.Experience)
	if p.Specialization != "" {
		fmt.Fprintf(&b, " You specialize in %s.", p.Specialization)
	}
	if p.Personality != "" {
		fmt.Fprintf(&b, "\nYour personality: %s.", p.Personality)
	}
	b.WriteString("\n")
	b.WriteString(styleConstraints)

	fmt.Fprintf(&b, "\nCURRENT PHASE: %s\n%s\n", phase, phaseGuidance(phase, missing))

	if profile != nil && len(profile.MarketIntelligence) > 0 {
		b.WriteString("\nMARKET KNOWLEDGE:\n")
		b.WriteString(renderMarketIntelligence(profile.MarketIntelligence))
	}

	b.WriteString("\nCONVERSATION SO FAR (between ")
	b.WriteString(transcriptDelimiter)
	b.WriteString(" markers):\n")
	b.WriteString(transcriptDelimiter)
	b.WriteString("\n")
	b.WriteString(t.Render("Client", p.Name))
	b.WriteString("\n")
	b.WriteString(transcriptDelimiter)
	b.WriteString("\n")

	fmt.Fprintf(&b, "\nRespond naturally as %s. Ask exactly one question, briefly.", p.Name)
	return b.String()
}

func phaseGuidance(phase domain.DialoguePhase, missing []string) string {
	switch phase {
	case domain.PhaseOpening:
		return "Ask what brings them to their property search today. Keep it warm and brief."
	case domain.PhaseRapportBuilding:
		return "Build trust. Ask about their current situation. Stay conversational."
	case domain.PhaseDiscovery:
		return "Explore their needs naturally. Still missing: " + missingList(missing) + "."
	case domain.PhaseDeepQualification:
		return "Request specifics on what is still missing: " + missingList(missing) + ". Offer one brief insight."
	case domain.PhaseClosing:
		return "Summarize what you learned, offer a next step, keep the tone upbeat and brief."
	default:
		return "Have a natural, brief conversation."
	}
}

func missingList(missing []string) string {
	if len(missing) == 0 {
		return "nothing"
	}
	return strings.Join(missing, ", ")
}

func renderMarketIntelligence(mi map[string]string) string {
	keys := make([]string, 0, len(mi))
	for k := range mi {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, mi[k])
	}
	return b.String()
}

// BuildClassification renders the one-shot classification prompt:
// business context, the criteria to extract, the fenced transcript, and
// a strict JSON-only output mandate.
func BuildClassification(t *domain.Transcript, profile *domain.BusinessProfile) string {
	var b strings.Builder

	b.WriteString("Analyze this conversation transcript and classify the lead quality.\n")

	if profile != nil {
		b.WriteString("\nBUSINESS CONTEXT:\n")
		fmt.Fprintf(&b, "Company: %s\n", profile.CompanyName)
		fmt.Fprintf(&b, "Industry: %s\n", profile.Industry)
	}

	criteria := criteriaOf(profile)
	b.WriteString("\nQUALIFICATION CRITERIA:\n")
	for _, c := range criteria {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Description)
	}

	b.WriteString("\nCONVERSATION TRANSCRIPT (between ")
	b.WriteString(transcriptDelimiter)
	b.WriteString(" markers):\n")
	b.WriteString(transcriptDelimiter)
	b.WriteString("\n")
	b.WriteString(t.Render("user", "assistant"))
	b.WriteString("\n")
	b.WriteString(transcriptDelimiter)
	b.WriteString("\n")

	b.WriteString("\nRespond with ONLY this JSON format, nothing else:\n")
	b.WriteString("{\n")
	b.WriteString(`  "status": "hot|warm|cold|invalid",` + "\n")
	b.WriteString(`  "confidence": 0.0-1.0,` + "\n")
	b.WriteString(`  "reasoning": "Brief explanation of the classification",` + "\n")
	b.WriteString(`  "metadata": {` + "\n")
	for i, c := range criteria {
		comma := ","
		if i == len(criteria)-1 {
			comma = ""
		}
		fmt.Fprintf(&b, "    %q: \"extracted value or null\"%s\n", c.Name, comma)
	}
	b.WriteString("  }\n")
	b.WriteString("}\n")

	b.WriteString("\nCLASSIFICATION RULES:\n")
	b.WriteString("- hot: all criteria met with strong buying signals.\n")
	b.WriteString("- warm: most criteria met, shows genuine interest.\n")
	b.WriteString("- cold: some criteria met but weak buying signals.\n")
	b.WriteString("- invalid: spam, test messages, or completely unrelated.\n")

	return b.String()
}

func criteriaOf(profile *domain.BusinessProfile) []domain.Criterion {
	if profile == nil {
		return nil
	}
	return profile.Criteria
}
