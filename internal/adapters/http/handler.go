package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/PabloGalante/compass-agent/internal/app/assistant"
	"github.com/PabloGalante/compass-agent/internal/app/planner"
	"github.com/PabloGalante/compass-agent/internal/app/statestore"
	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/observability"
)

const maxBodyBytes = 1 << 20

type Server struct {
	planner   *planner.Service
	assistant *assistant.Service
	states    *statestore.Service
	auth      Authenticator
}

func NewServer(
	plannerSvc *planner.Service,
	assistantSvc *assistant.Service,
	states *statestore.Service,
	auth Authenticator,
) http.Handler {
	s := &Server{
		planner:   plannerSvc,
		assistant: assistantSvc,
		states:    states,
		auth:      auth,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(withLogging)
	r.Use(middleware.Recoverer)
	r.Use(withCORS)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(api chi.Router) {
		api.Post("/plan", s.handleGeneratePlan)
		api.Post("/chat", s.handleChat)

		// State is keyed by the authenticated identity, never by the body.
		api.Group(func(authed chi.Router) {
			authed.Use(withAuth(s.auth))
			authed.Get("/state", s.handleLoadState)
			authed.Post("/state", s.handleSaveState)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type errorResponse struct {
	Error string `json:"error"`
}

type planEnvelope struct {
	Profile *domain.Profile `json:"profile"`
}

type planResponse struct {
	Plan *domain.Plan `json:"plan"`
}

type chatRequest struct {
	Profile         *domain.Profile  `json:"profile"`
	Plan            *domain.Plan     `json:"plan"`
	SelectedMonthID *domain.MonthID  `json:"selectedMonthId"`
	Messages        []assistant.Turn `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type stateResponse struct {
	State *domain.AppState `json:"state"`
}

type saveStateRequest struct {
	State json.RawMessage `json:"state"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGeneratePlan accepts the profile flat, or wrapped as {"profile": {...}}.
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		badRequest(w, "invalid body")
		return
	}

	var env planEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	profile := env.Profile
	if profile == nil {
		profile = &domain.Profile{}
		if err := json.Unmarshal(body, profile); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	plan, err := s.planner.Generate(r.Context(), *profile)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, planResponse{Plan: plan})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	reply, err := s.assistant.Reply(r.Context(), assistant.Input{
		Profile:         req.Profile,
		Plan:            req.Plan,
		SelectedMonthID: req.SelectedMonthID,
		Messages:        req.Messages,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleLoadState(w http.ResponseWriter, r *http.Request) {
	state, err := s.states.Load(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stateResponse{State: state})
}

func (s *Server) handleSaveState(w http.ResponseWriter, r *http.Request) {
	var req saveStateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if err := s.states.Save(r.Context(), UserIDFromContext(r.Context()), req.State); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// writeError maps domain errors onto status codes. Unknown errors are logged
// and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidProfile), errors.Is(err, domain.ErrInvalidState):
		badRequest(w, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, domain.ErrCompletionUnavailable), errors.Is(err, domain.ErrMalformedCompletion):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
