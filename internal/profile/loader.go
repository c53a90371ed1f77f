// Package profile loads the business profile that configures one
// deployment of the qualification engine: persona, scripted questions,
// qualification criteria and classification messages.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/groweasy/lead-agent/internal/domain"
	"github.com/groweasy/lead-agent/internal/observability"
)

// Load reads a profile from a YAML (or JSON, which YAML parses) file.
// When path is empty or the file cannot be read, the built-in default
// profile is returned so the engine can always start.
func Load(path string) *domain.BusinessProfile {
	log := observability.Logger()

	if path == "" {
		log.Info("no profile path configured, using default business profile")
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to read business profile, falling back to default", "path", path, "error", err)
		return Default()
	}

	p, err := parse(data)
	if err != nil {
		log.Error("failed to parse business profile, falling back to default", "path", path, "error", err)
		return Default()
	}

	log.Info("business profile loaded", "path", path, "company", p.CompanyName)
	return p
}

func parse(data []byte) (*domain.BusinessProfile, error) {
	var p domain.BusinessProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	if len(p.Criteria) == 0 {
		p.Criteria = Default().Criteria
	}
	if p.Greeting == "" {
		p.Greeting = Default().Greeting
	}
	return &p, nil
}

// Default is the built-in GrowEasy real-estate profile used whenever no
// deployment-specific profile is available.
func Default() *domain.BusinessProfile {
	return &domain.BusinessProfile{
		CompanyName:    "GrowEasy Real Estate",
		Industry:       "Real Estate",
		TargetAudience: "Property buyers and sellers",
		Greeting:       "Hello! I'm here to help you find your perfect property. Let me ask you a few quick questions to better understand your needs.",

		Questions: []domain.QuestionSpec{
			{
				ID:                     "city",
				Text:                   "Which city are you looking to buy property in?",
				Type:                   domain.QuestionFreeText,
				Required:               true,
				AcknowledgmentTemplate: "Great choice! {answer} has some excellent options right now.",
			},
			{
				ID:       "property_type",
				Text:     "What type of property are you interested in?",
				Type:     domain.QuestionFixedChoice,
				Options:  []string{"Apartment", "Villa", "Plot", "Commercial"},
				Required: true,
			},
			{
				ID:                     "budget",
				Text:                   "What budget range do you have in mind?",
				Type:                   domain.QuestionFreeText,
				Required:               true,
				AcknowledgmentTemplate: "Got it, {answer} gives us a good range to work with.",
			},
			{
				ID:       "timeline",
				Text:     "When are you planning to make the purchase?",
				Type:     domain.QuestionFixedChoice,
				Options:  []string{"0-3 months", "3-6 months", "6-12 months", "Just exploring"},
				Required: true,
			},
		},

		Criteria: []domain.Criterion{
			{
				Name:        "budget",
				Description: "Must have budget information",
				Pattern:     `budget|price|cost|money|lakh|crore|rupee|₹|\$`,
				Required:    true,
			},
			{
				Name:        "timeline",
				Description: "Must have timeline for purchase/sale",
				Pattern:     `timeline|time|month|year|soon|urgent|when|by`,
				Required:    true,
			},
			{
				Name:        "location",
				Description: "Must specify preferred location",
				Pattern:     `location|area|city|place|where`,
				Required:    true,
			},
			{
				Name:        "propertyType",
				Description: "Must indicate property type interest",
				Pattern:     `apartment|villa|house|flat|bhk|commercial|office|shop|plot`,
				Required:    true,
			},
		},

		Classification: map[string]domain.CategorySpec{
			"hot": {
				Message: "Wonderful! You're clearly ready to move forward. One of our senior consultants will call you within the hour.",
			},
			"warm": {
				Message: "Thanks for sharing all that! We'll send you a curated list of options and stay in touch.",
			},
			"cold": {
				Message: "Thank you for your time! Feel free to reach out whenever you're ready to take the next step.",
			},
			"invalid": {
				Message: "Thanks for stopping by! If you have property needs in the future, we're here to help.",
			},
		},

		AgentPersona: &domain.AgentPersona{
			Name:           "Priya",
			Role:           "senior real estate consultant",
			Experience:     "8+ years in real estate",
			Specialization: "residential properties and first-time buyers",
			Personality:    "warm, knowledgeable and genuinely helpful, like a friend who knows the market",
		},

		MarketIntelligence: map[string]string{
			"bangalore": "Electronic City and Whitefield are seeing strong appreciation; good metro connectivity is driving demand.",
			"mumbai":    "Suburbs like Thane offer better value per square foot than the island city.",
			"pune":      "Hinjewadi and Wakad remain popular with IT professionals for their commute-friendly locations.",
		},
	}
}
