package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/PabloGalante/rajbari-portal/internal/adapters/llm"
	"github.com/PabloGalante/rajbari-portal/internal/app/admin"
	"github.com/PabloGalante/rajbari-portal/internal/app/catalog"
	"github.com/PabloGalante/rajbari-portal/internal/app/conversation"
	"github.com/PabloGalante/rajbari-portal/internal/app/navigation"
	"github.com/PabloGalante/rajbari-portal/internal/app/railway"
	"github.com/PabloGalante/rajbari-portal/internal/bangla"
	"github.com/PabloGalante/rajbari-portal/internal/domain"
	"github.com/PabloGalante/rajbari-portal/internal/observability"
)

const adminPINHeader = "X-Admin-Pin"

// Services are the application services exposed over HTTP. Gateway serves
// the /api/ai bridge endpoint.
type Services struct {
	Chat    *conversation.Service
	Catalog *catalog.Service
	Tracker *railway.Tracker
	Admin   *admin.Service
	Gateway domain.Gateway
}

type Server struct {
	svc Services
	now func() time.Time
}

func NewServer(svc Services, corsOrigins []string) http.Handler {
	s := &Server{svc: svc, now: time.Now}

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(withRequestID)
	r.Use(withLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", adminPINHeader, requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", observability.MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/ai", s.handleAI)
		r.Get("/home", s.handleHome)
		r.Post("/navigation", s.handleNavigation)

		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/messages", s.handleSendMessage)
		r.Delete("/sessions/{id}/messages", s.handleClearSession)

		r.Get("/categories/{category}", s.handleCategory)

		r.Get("/trains", s.handleTrains)
		r.Get("/trains/{id}/track", s.handleTrackTrain)

		r.Get("/news", s.handleNews)
		r.Get("/places", s.handlePlaces)

		r.Post("/admin/login", s.handleAdminLogin)
		r.Post("/admin/diagnostics", s.handleAdminDiagnostics)
	})

	return otelhttp.NewHandler(r, "portal.http")
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	Title string `json:"title,omitempty"`
}

type createSessionResponse struct {
	Session sessionResponse  `json:"session"`
	Welcome *messageResponse `json:"welcomeMessage,omitempty"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type messageResponse struct {
	ID        string          `json:"id"`
	SessionID string          `json:"sessionId"`
	Role      string          `json:"role"`
	Text      string          `json:"text"`
	Mode      string          `json:"mode,omitempty"`
	Badge     string          `json:"badge,omitempty"`
	IsError   bool            `json:"isError,omitempty"`
	Sources   []domain.Source `json:"sources,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type sendMessageRequest struct {
	Text  string `json:"text"`
	Retry bool   `json:"retry,omitempty"`
}

type sendMessageResponse struct {
	UserMessage  *messageResponse `json:"userMessage,omitempty"`
	ModelMessage messageResponse  `json:"modelMessage"`
}

type getSessionResponse struct {
	Session  sessionResponse   `json:"session"`
	Messages []messageResponse `json:"messages"`
}

type trackResponse struct {
	Train          domain.Train       `json:"train"`
	Inference      domain.AIInference `json:"inference"`
	CurrentStation string             `json:"currentStation,omitempty"`
	StationKnown   bool               `json:"stationKnown"`
	Stations       []string           `json:"stations"`
	Mode           string             `json:"mode"`
	Badge          string             `json:"badge"`
	Notice         string             `json:"notice,omitempty"`
	Sources        []domain.Source    `json:"sources,omitempty"`
}

type homeResponse struct {
	Greeting   string            `json:"greeting"`
	Weekday    string            `json:"weekday"`
	Date       string            `json:"date"`
	Clock      string            `json:"clock"`
	Categories []domain.Category `json:"categories"`
}

// navigationRequest carries the client's navigation state. A missing state
// means the initial one.
type navigationRequest struct {
	State *navigation.State `json:"state,omitempty"`
	Event navigation.Event  `json:"event"`
}

type adminLoginRequest struct {
	PIN string `json:"pin"`
}

// ─────────────────────────────────────────────
// Bridge
// ─────────────────────────────────────────────

func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	var wire llm.BridgeRequest
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	req, err := wire.DomainRequest()
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	res := s.svc.Gateway.Call(r.Context(), req)
	if res.Failed() {
		status := http.StatusBadGateway
		if res.Error == domain.ErrCodeCredentialMissing {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, llm.BridgeResponse{
			Error:   string(res.Error),
			Details: res.Detail,
		})
		return
	}

	writeJSON(w, http.StatusOK, llm.BridgeResponse{
		Text:    res.TextOrEmpty(),
		Mode:    res.Mode,
		Sources: res.Sources,
	})
}

// ─────────────────────────────────────────────
// Home
// ─────────────────────────────────────────────

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	now := s.now().In(bangla.Dhaka())
	writeJSON(w, http.StatusOK, homeResponse{
		Greeting:   bangla.Greeting(now),
		Weekday:    bangla.Weekday(now),
		Date:       bangla.LongDate(now),
		Clock:      bangla.Clock(now),
		Categories: domain.Categories(),
	})
}

// handleNavigation computes the next screen. Admin screens reached here
// are presentation only; admin endpoints still check the pin.
func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	var req navigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Event.Kind == "" {
		badRequest(w, "event.kind is required")
		return
	}

	state := navigation.Initial()
	if req.State != nil {
		state = *req.State
	}
	if req.Event.At.IsZero() {
		req.Event.At = s.now()
	}
	writeJSON(w, http.StatusOK, navigation.Next(state, req.Event))
}

// ─────────────────────────────────────────────
// Chat
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	out, err := s.svc.Chat.StartSession(r.Context(), conversation.StartSessionInput{Title: req.Title})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := createSessionResponse{Session: toSessionResponse(out.Session)}
	if out.Welcome != nil {
		m := toMessageResponse(out.Welcome)
		resp.Welcome = &m
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	session, msgs, err := s.svc.Chat.GetSessionTimeline(r.Context(), sessionIDParam(r), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, getSessionResponse{
		Session:  toSessionResponse(session),
		Messages: toMessagesResponse(msgs),
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.Chat.SendMessage(r.Context(), conversation.SendMessageInput{
		SessionID: sessionIDParam(r),
		Text:      req.Text,
		Retry:     req.Retry,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := sendMessageResponse{ModelMessage: toMessageResponse(out.ModelMessage)}
	if out.UserMessage != nil {
		m := toMessageResponse(out.UserMessage)
		resp.UserMessage = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	welcome, err := s.svc.Chat.ClearSession(r.Context(), sessionIDParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]messageResponse{
		"welcomeMessage": toMessageResponse(welcome),
	})
}

func sessionIDParam(r *http.Request) domain.SessionID {
	return domain.SessionID(chi.URLParam(r, "id"))
}

// ─────────────────────────────────────────────
// Catalog
// ─────────────────────────────────────────────

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := s.svc.Catalog.Fetch(r.Context(), category, isTruthy(r.URL.Query().Get("refresh")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Catalog.CurrentHeadlines(r.Context()))
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	results, err := s.svc.Catalog.SearchPlaces(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// ─────────────────────────────────────────────
// Trains
// ─────────────────────────────────────────────

func (s *Server) handleTrains(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]domain.Train{
		"trains": s.svc.Catalog.Trains(),
	})
}

func (s *Server) handleTrackTrain(w http.ResponseWriter, r *http.Request) {
	tr, err := s.svc.Tracker.Track(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trackResponse{
		Train:          tr.Train,
		Inference:      tr.Inference,
		CurrentStation: tr.CurrentStation,
		StationKnown:   tr.StationKnown,
		Stations:       railway.SplitRoute(tr.Train.DetailedRoute),
		Mode:           string(tr.Mode),
		Badge:          tr.Mode.Badge(),
		Notice:         tr.Notice,
		Sources:        tr.Sources,
	})
}

// ─────────────────────────────────────────────
// Admin
// ─────────────────────────────────────────────

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if err := s.svc.Admin.Authenticate(r.Context(), req.PIN); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleAdminDiagnostics(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Admin.Authenticate(r.Context(), r.Header.Get(adminPINHeader)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Admin.Diagnostics(r.Context()))
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		ID:        string(s.ID),
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	resp := messageResponse{
		ID:        string(m.ID),
		SessionID: string(m.SessionID),
		Role:      string(m.Role),
		Text:      m.Text,
		Mode:      string(m.Mode),
		IsError:   m.IsError,
		Sources:   m.Sources,
		CreatedAt: m.CreatedAt,
	}
	if m.Role == domain.RoleModel {
		resp.Badge = m.Mode.Badge()
	}
	return resp
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

// writeError maps application errors to status codes. Unknown errors are
// logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrTrainNotFound),
		errors.Is(err, domain.ErrUnknownCategory):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrEmptyMessage):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNothingToRetry):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidPIN):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrAdminDisabled):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
		writeJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
