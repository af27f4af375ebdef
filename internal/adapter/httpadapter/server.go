package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/cep-lookup/internal/domain"
	"github.com/couchcryptid/cep-lookup/internal/form"
	"github.com/couchcryptid/cep-lookup/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxFormBytes bounds the POST body; a CEP is at most nine characters.
const maxFormBytes = 1 << 10

// Server serves the lookup form, the JSON lookup API, and health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	lookup     domain.AddressLookup
	formOpts   []form.Option
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires routes. Each form submit and API call runs on its own form
// built from lookup and formOpts.
func NewServer(
	addr string,
	lookup domain.AddressLookup,
	ready sharedobs.ReadinessChecker,
	limiter *RateLimiter,
	metrics *observability.Metrics,
	logger *slog.Logger,
	formOpts ...form.Option,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		lookup:   lookup,
		formOpts: formOpts,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /{$}", s.handleFormPage)
	mux.Handle("POST /{$}", limiter.Limit(http.HandlerFunc(s.handleFormSubmit)))
	mux.Handle("GET /api/cep/{cep}", limiter.Limit(http.HandlerFunc(s.handleLookupAPI)))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: requestID(requestLogger(logger)(securityHeaders(mux))),
		// No WriteTimeout: the upstream lookup has no deadline of its own
		// unless VIACEP_TIMEOUT is set.
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) newForm(r *http.Request) *form.Form {
	logger := s.logger.With("request_id", RequestIDFrom(r.Context()))
	return form.New(s.lookup, logger, s.metrics, s.formOpts...)
}

func (s *Server) handleFormPage(w http.ResponseWriter, _ *http.Request) {
	s.writePage(w, form.State{})
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	f := s.newForm(r)
	f.Submit(r.Context(), r.PostFormValue("cep"))
	s.writePage(w, f.State())
}

func (s *Server) writePage(w http.ResponseWriter, st form.State) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPage(w, st); err != nil {
		s.logger.Error("render form page", "error", err)
	}
}

type lookupResponse struct {
	CEP     string          `json:"cep"`
	Address *domain.Address `json:"address"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Outcome string `json:"outcome,omitempty"`
}

var outcomeStatus = map[domain.OutcomeKind]int{
	domain.OutcomeFormatError:    http.StatusBadRequest,
	domain.OutcomeNotFound:       http.StatusNotFound,
	domain.OutcomeTransportError: http.StatusBadGateway,
}

func (s *Server) handleLookupAPI(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("cep")

	out := s.newForm(r).Submit(r.Context(), raw)
	if out.Failed() {
		writeJSON(w, outcomeStatus[out.Kind], errorResponse{Error: out.Message, Outcome: out.Kind.String()})
		return
	}

	digits, _ := domain.NormalizeCEP(raw)
	writeJSON(w, http.StatusOK, lookupResponse{CEP: domain.FormatCEP(digits), Address: out.Address})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
