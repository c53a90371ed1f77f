package config

import (
	"log"
	"os"
	"strconv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	GCPProjectID string
	GCPLocation  string
	ModelName    string
	APIKey       string

	// DialogueMode selects between "scripted" (fixed question plan) and
	// "natural" (generated questions) per deployment.
	DialogueMode string

	ProfilePath string
	LogFile     string

	LeadSinkBackend string // "csv", "firestore" or "none"
	LeadCSVPath     string

	UseMockLLM bool // true = use mock even on GCP

	// Dialogue safety bounds.
	HardTurnCap     int // natural mode never exceeds this many turns
	MaxInputChars   int
	ReplyCharCap    int // sanitizer display cap
	ReplyCharFloor  int // minimum sentence-boundary offset when truncating
	MaxOutputTokens int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("GROWEASY_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("GROWEASY_PORT", "8080"),

		GCPProjectID: getEnv("GROWEASY_GCP_PROJECT", ""),
		GCPLocation:  getEnv("GROWEASY_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("GROWEASY_MODEL_NAME", "gemini-2.5-flash"),
		APIKey:       getEnv("GROWEASY_API_KEY", ""),

		DialogueMode: getEnv("GROWEASY_DIALOGUE_MODE", "natural"),

		ProfilePath: getEnv("GROWEASY_PROFILE_PATH", ""),
		LogFile:     getEnv("GROWEASY_LOG_FILE", ""),

		LeadSinkBackend: getEnv("GROWEASY_LEAD_SINK", "csv"),
		LeadCSVPath:     getEnv("GROWEASY_LEAD_CSV_PATH", "leads.csv"),

		UseMockLLM: getBoolEnv("GROWEASY_USE_MOCK_LLM", mode == ModeLocal),

		HardTurnCap:     getIntEnv("GROWEASY_HARD_TURN_CAP", 16),
		MaxInputChars:   getIntEnv("GROWEASY_MAX_INPUT_CHARS", 1000),
		ReplyCharCap:    getIntEnv("GROWEASY_REPLY_CHAR_CAP", 300),
		ReplyCharFloor:  getIntEnv("GROWEASY_REPLY_CHAR_FLOOR", 200),
		MaxOutputTokens: getIntEnv("GROWEASY_MAX_OUTPUT_TOKENS", 300),
	}

	// Minimal validation in GCP mode
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" && cfg.APIKey == "" {
		log.Fatal("GROWEASY_GCP_PROJECT or GROWEASY_API_KEY must be set in gcp mode")
	}

	return cfg
}
