package domain

import "time"

type ConversationID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type EngineMode string

const (
	ModeScripted EngineMode = "scripted" // fixed question plan from the business profile
	ModeNatural  EngineMode = "natural"  // generated questions driven by coverage
)

// DialoguePhase is derived fresh every turn from transcript length and
// coverage; it is never persisted independently of the transcript.
type DialoguePhase string

const (
	PhaseOpening           DialoguePhase = "opening"
	PhaseRapportBuilding   DialoguePhase = "rapport_building"
	PhaseDiscovery         DialoguePhase = "discovery"
	PhaseDeepQualification DialoguePhase = "deep_qualification"
	PhaseClosing           DialoguePhase = "closing"
)

type Timestamp = time.Time
