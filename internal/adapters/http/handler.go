package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/groweasy/lead-agent/internal/adapters/storage/memory"
	"github.com/groweasy/lead-agent/internal/app/conversation"
	"github.com/groweasy/lead-agent/internal/app/dialogue"
	"github.com/groweasy/lead-agent/internal/domain"
)

// EngineFactory builds a fresh engine for each new conversation so no
// transcript is ever shared between callers.
type EngineFactory func() *conversation.Engine

type Server struct {
	registry  *memory.Registry
	newEngine EngineFactory
	lister    domain.LeadLister
}

// NewServer wires the HTTP surface. lister may be nil when the lead sink
// cannot read records back.
func NewServer(registry *memory.Registry, newEngine EngineFactory, lister domain.LeadLister) http.Handler {
	s := &Server{
		registry:  registry,
		newEngine: newEngine,
		lister:    lister,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/leads", s.handleLeads)

	// /conversations            → POST: start conversation
	mux.HandleFunc("/conversations", s.handleConversations)

	// /conversations/{id}          →  GET: transcript view
	// /conversations/{id}/messages → POST: send message
	// /conversations/{id}/reset    → POST: reset conversation
	mux.HandleFunc("/conversations/", s.handleConversationWithID)

	return chainMiddlewares(mux, withCORS, withRequestID, withLogging)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type startConversationResponse struct {
	ConversationID string            `json:"conversation_id"`
	Reply          string            `json:"reply"`
	Options        []string          `json:"options,omitempty"`
	QuestionType   string            `json:"questionType,omitempty"`
	Progress       *progressResponse `json:"progress,omitempty"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type turnResponse struct {
	Success          bool                    `json:"success"`
	Reply            string                  `json:"reply"`
	IsComplete       bool                    `json:"isComplete"`
	Classification   *classificationResponse `json:"classification,omitempty"`
	Progress         *progressResponse       `json:"progress,omitempty"`
	Options          []string                `json:"options,omitempty"`
	QuestionType     string                  `json:"questionType,omitempty"`
	TranscriptLength int                     `json:"transcriptLength"`
	LeadRecorded     bool                    `json:"leadRecorded,omitempty"`
}

type classificationResponse struct {
	Status     string            `json:"status"`
	Confidence float64           `json:"confidence"`
	Reasoning  string            `json:"reasoning"`
	Metadata   map[string]string `json:"metadata"`
}

type progressResponse struct {
	QuestionsAnswered int `json:"questionsAnswered"`
	TotalQuestions    int `json:"totalQuestions"`
}

type transcriptResponse struct {
	ConversationID string         `json:"conversation_id"`
	IsComplete     bool           `json:"isComplete"`
	Turns          []turnViewItem `json:"turns"`
}

type turnViewItem struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type leadResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           string            `json:"status"`
	Confidence       float64           `json:"confidence"`
	Reasoning        string            `json:"reasoning"`
	Metadata         map[string]string `json:"metadata"`
	TranscriptLength int               `json:"transcriptLength"`
	Transcript       string            `json:"transcript"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Lead qualification engine is running",
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// /conversations
func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleStartConversation(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /conversations/{id}, /conversations/{id}/messages, /conversations/{id}/reset
func (s *Server) handleConversationWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/conversations/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.ConversationID(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetTranscript(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 {
		switch {
		case parts[1] == "messages" && r.Method == http.MethodPost:
			s.handleSendMessage(w, r, id)
			return
		case parts[1] == "reset" && r.Method == http.MethodPost:
			s.handleReset(w, r, id)
			return
		case parts[1] == "messages" || parts[1] == "reset":
			methodNotAllowed(w)
			return
		}
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	conv := s.registry.Create(s.newEngine())

	var opening *conversation.TurnResult
	conv.Do(func(e *conversation.Engine) {
		opening = e.Start()
	})

	writeJSON(w, http.StatusCreated, startConversationResponse{
		ConversationID: string(conv.ID),
		Reply:          opening.Reply,
		Options:        opening.Options,
		QuestionType:   string(opening.QuestionType),
		Progress:       toProgressResponse(opening.Progress),
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, id domain.ConversationID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body", "INVALID_JSON")
		return
	}

	conv, err := s.registry.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var (
		result *conversation.TurnResult
		msgErr error
	)
	conv.Do(func(e *conversation.Engine) {
		result, msgErr = e.HandleMessage(r.Context(), req.Message)
	})

	if msgErr != nil {
		writeEngineError(w, msgErr)
		return
	}

	writeJSON(w, http.StatusOK, toTurnResponse(result))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, id domain.ConversationID) {
	conv, err := s.registry.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var opening *conversation.TurnResult
	conv.Do(func(e *conversation.Engine) {
		e.Reset()
		opening = e.Start()
	})

	writeJSON(w, http.StatusOK, startConversationResponse{
		ConversationID: string(conv.ID),
		Reply:          opening.Reply,
		Options:        opening.Options,
		QuestionType:   string(opening.QuestionType),
		Progress:       toProgressResponse(opening.Progress),
	})
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request, id domain.ConversationID) {
	conv, err := s.registry.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	resp := transcriptResponse{ConversationID: string(conv.ID)}
	conv.Do(func(e *conversation.Engine) {
		resp.IsComplete = e.IsComplete()
		for _, turn := range e.Transcript().Turns() {
			resp.Turns = append(resp.Turns, turnViewItem{
				Role:      string(turn.Role),
				Content:   turn.Content,
				Timestamp: turn.CreatedAt,
			})
		}
	})

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if s.lister == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{
			Error: "configured lead sink does not support listing",
			Code:  "NOT_SUPPORTED",
		})
		return
	}

	records, err := s.lister.Recent(r.Context(), 50)
	if err != nil {
		internalError(w)
		return
	}

	out := make([]leadResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, leadResponse{
			Timestamp:        rec.Timestamp,
			Status:           string(rec.Status),
			Confidence:       rec.Confidence,
			Reasoning:        rec.Reasoning,
			Metadata:         rec.Metadata,
			TranscriptLength: rec.TranscriptLength,
			Transcript:       rec.SerializedTranscript,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": out})
}

// ─────────────────────────────────────────────
// Response helpers
// ─────────────────────────────────────────────

func toTurnResponse(result *conversation.TurnResult) turnResponse {
	resp := turnResponse{
		Success:          true,
		Reply:            result.Reply,
		IsComplete:       result.IsComplete,
		Progress:         toProgressResponse(result.Progress),
		Options:          result.Options,
		QuestionType:     string(result.QuestionType),
		TranscriptLength: result.TranscriptLength,
		LeadRecorded:     result.LeadRecorded,
	}
	if result.Classification != nil {
		resp.Classification = &classificationResponse{
			Status:     string(result.Classification.Status),
			Confidence: result.Classification.Confidence,
			Reasoning:  result.Classification.Reasoning,
			Metadata:   result.Classification.Metadata,
		}
	}
	return resp
}

func toProgressResponse(p *dialogue.Progress) *progressResponse {
	if p == nil {
		return nil
	}
	return &progressResponse{
		QuestionsAnswered: p.QuestionsAnswered,
		TotalQuestions:    p.TotalQuestions,
	}
}

// writeEngineError maps engine errors onto HTTP statuses and the error
// codes the front-end understands.
func writeEngineError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Message, Code: vErr.Code})
		return
	}

	var gErr *domain.GenerationError
	if errors.As(err, &gErr) {
		status := http.StatusInternalServerError
		message := "Failed to process chat message"
		switch gErr.Kind {
		case domain.GenerationAuth:
			message = "Service configuration error"
		case domain.GenerationRateLimit:
			status = http.StatusTooManyRequests
			message = "Rate limit exceeded, please try again shortly"
		case domain.GenerationServer:
			status = http.StatusBadGateway
			message = "Generation service unavailable, please try again"
		}
		writeJSON(w, status, errorResponse{Error: message, Code: gErr.ErrorCode()})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "Failed to process chat message",
		Code:  domain.CodeUnknownError,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg, code string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Code: code})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "internal server error",
		Code:  domain.CodeServerError,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Error: "method not allowed",
		Code:  "METHOD_NOT_ALLOWED",
	})
}
