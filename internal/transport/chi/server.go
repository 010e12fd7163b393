package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain"
	domlesson "github.com/kailas-cloud/storefront/internal/domain/lesson"
	logpkg "github.com/kailas-cloud/storefront/internal/logger"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
)

// maxBodyBytes caps request bodies for order and lesson writes.
const maxBodyBytes = 1 << 20

// Client-facing messages.
const (
	msgFetchLessons   = "Failed to fetch lessons"
	msgFetchOrders    = "Failed to fetch orders"
	msgCreateOrder    = "Internal server error"
	msgUpdateLesson   = "Failed to update lesson"
	msgSearch         = "Search failed."
	msgInvalidBody    = "Request body must be a JSON object"
	msgInvalidQuery   = "Invalid search query"
	msgImageNotFound  = "Image not found. Please check the URL."
	msgOrderCreated   = "Order created"
	msgLessonUpdated  = "Lesson updated successfully"
	msgInternalError  = "internal error"
	msgInvalidPayload = "Invalid lesson update"
)

// LessonService lists and updates lessons.
type LessonService interface {
	List(ctx context.Context) ([]domain.Document, error)
	Update(ctx context.Context, payload domain.Document) (domlesson.UpdateResult, error)
}

// OrderService lists and creates orders.
type OrderService interface {
	List(ctx context.Context) ([]domain.Document, error)
	Create(ctx context.Context, payload domain.Document) (string, error)
}

// SearchService runs free-text lesson search.
type SearchService interface {
	Search(ctx context.Context, term string) ([]domain.Document, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the storefront HTTP API.
type Server struct {
	lessons       LessonService
	orders        OrderService
	search        SearchService
	health        HealthService
	imagesDir     string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	lessons LessonService,
	orders OrderService,
	search SearchService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		lessons: lessons,
		orders:  orders,
		search:  search,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		payloadHandler,
	}
	return s
}

// WithImagesDir sets the directory served under /images.
func (s *Server) WithImagesDir(dir string) *Server {
	s.imagesDir = dir
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Index)
	r.Get("/lessons", s.ListLessons)
	r.Put("/lessons", s.UpdateLesson)
	r.Get("/orders", s.ListOrders)
	r.Post("/orders", s.CreateOrder)
	r.Get("/search", s.SearchLessons)
	r.Get("/images", s.Image)
	r.Get("/images/*", s.Image)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// ListLessons handles GET /lessons.
func (s *Server) ListLessons(w http.ResponseWriter, r *http.Request) {
	docs, err := s.lessons.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err, msgFetchLessons)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// UpdateLesson handles PUT /lessons.
func (s *Server) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeObject(w, r)
	if !ok {
		return
	}

	res, err := s.lessons.Update(r.Context(), payload)
	if err != nil {
		s.handleDomainError(w, r, err, msgUpdateLesson)
		return
	}

	writeJSON(w, http.StatusOK, updateResponse{
		Message:  msgLessonUpdated,
		Matched:  res.Matched,
		Modified: res.Modified,
	})
}

// ListOrders handles GET /orders.
func (s *Server) ListOrders(w http.ResponseWriter, r *http.Request) {
	docs, err := s.orders.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err, msgFetchOrders)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// CreateOrder handles POST /orders.
func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeObject(w, r)
	if !ok {
		return
	}

	id, err := s.orders.Create(r.Context(), payload)
	if err != nil {
		s.handleDomainError(w, r, err, msgCreateOrder)
		return
	}

	writeJSON(w, http.StatusCreated, orderCreatedResponse{Message: msgOrderCreated, OrderID: id})
}

// SearchLessons handles GET /search?q=<term>.
func (s *Server) SearchLessons(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidQuery)
		return
	}

	docs, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err, msgSearch)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

type updateResponse struct {
	Message  string `json:"message"`
	Matched  int64  `json:"matched"`
	Modified int64  `json:"modified"`
}

type orderCreatedResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// decodeObject reads a JSON object body. It writes a 400 and reports false otherwise.
func decodeObject(w http.ResponseWriter, r *http.Request) (domain.Document, bool) {
	doc, err := domain.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logpkg.FromContext(r.Context()).Warn("invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return nil, false
	}
	return doc, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

var payloadHandler = sentinelHandler(domain.ErrInvalidPayload, http.StatusBadRequest, msgInvalidPayload)

// handleDomainError maps err through the error handlers, falling back to a 500 with fallback as message.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	log := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, fallback)
}
