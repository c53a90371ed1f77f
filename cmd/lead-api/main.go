package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/groweasy/lead-agent/internal/adapters/http"
	csvsink "github.com/groweasy/lead-agent/internal/adapters/leadsink/csvfile"
	firestoresink "github.com/groweasy/lead-agent/internal/adapters/leadsink/firestore"
	"github.com/groweasy/lead-agent/internal/adapters/llm"
	"github.com/groweasy/lead-agent/internal/adapters/storage/memory"
	"github.com/groweasy/lead-agent/internal/app/conversation"
	"github.com/groweasy/lead-agent/internal/config"
	"github.com/groweasy/lead-agent/internal/domain"
	"github.com/groweasy/lead-agent/internal/observability"
	"github.com/groweasy/lead-agent/internal/profile"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	observability.Init(cfg.LogFile)

	businessProfile := profile.Load(cfg.ProfilePath)

	// LLM: mock or Gemini by config (useful for dev)
	var (
		generator domain.Generator
		err       error
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using mock generator")
		generator = llm.NewMockGenerator()
	} else {
		log.Println("[LLM] Using Gemini generator")
		generator, err = llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:    cfg.APIKey,
			Project:   cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.ModelName,
		})
		if err != nil {
			log.Fatalf("error initializing Gemini client: %v", err)
		}
	}

	// Lead sink: CSV, Firestore or none
	var (
		sink   domain.LeadSink
		lister domain.LeadLister
	)
	switch cfg.LeadSinkBackend {
	case "firestore":
		if cfg.GCPProjectID == "" {
			log.Fatal("GROWEASY_GCP_PROJECT is required for the Firestore lead sink")
		}
		log.Printf("[LEADS] Using Firestore lead sink (project=%s)", cfg.GCPProjectID)
		fsSink, err := firestoresink.NewSink(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore lead sink: %v", err)
		}
		sink = fsSink
		lister = fsSink

	case "none":
		log.Println("[LEADS] Lead persistence disabled")

	default:
		log.Printf("[LEADS] Using CSV lead sink (path=%s)", cfg.LeadCSVPath)
		csvSink := csvsink.NewSink(cfg.LeadCSVPath, criterionNames(businessProfile))
		sink = csvSink
		lister = csvSink
	}

	mode := domain.ModeNatural
	if cfg.DialogueMode == "scripted" {
		mode = domain.ModeScripted
	}
	log.Printf("[ENGINE] Dialogue mode: %s", mode)

	newEngine := func() *conversation.Engine {
		return conversation.NewEngine(conversation.Options{
			Mode:            mode,
			Profile:         businessProfile,
			Generator:       generator,
			LeadSink:        sink,
			HardTurnCap:     cfg.HardTurnCap,
			MaxInputChars:   cfg.MaxInputChars,
			ReplyCharCap:    cfg.ReplyCharCap,
			ReplyCharFloor:  cfg.ReplyCharFloor,
			MaxOutputTokens: cfg.MaxOutputTokens,
		})
	}

	handler := httpadapter.NewServer(memory.NewRegistry(), newEngine, lister)

	addr := ":" + cfg.Port
	log.Println("Lead qualification API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}

func criterionNames(p *domain.BusinessProfile) []string {
	names := make([]string, 0, len(p.Criteria))
	for _, c := range p.Criteria {
		names = append(names, c.Name)
	}
	return names
}
