package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"voicelab-pro/internal/auth"
	"voicelab-pro/internal/catalog"
	"voicelab-pro/internal/config"
	"voicelab-pro/internal/metrics"
	"voicelab-pro/internal/tts"
	"voicelab-pro/internal/user"
	"voicelab-pro/pkg/models"

	"go.uber.org/zap"
)

// Server представляет HTTP API сервер приложения
type Server struct {
	users      *user.Service
	gate       *auth.Gate
	elevenlabs tts.Service
	cartesia   tts.Service
	catalog    *catalog.Service
	metrics    *metrics.Metrics
	health     *metrics.Handler

	cookieTTL    time.Duration
	secureCookie bool
	frontendURL  string

	logger *zap.Logger
	mux    *http.ServeMux
}

// NewServer создает новый HTTP сервер со всеми маршрутами
func NewServer(
	users *user.Service,
	gate *auth.Gate,
	elevenlabs tts.Service,
	cartesia tts.Service,
	catalogService *catalog.Service,
	metricsSystem *metrics.Metrics,
	metricsHandler *metrics.Handler,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	s := &Server{
		users:        users,
		gate:         gate,
		elevenlabs:   elevenlabs,
		cartesia:     cartesia,
		catalog:      catalogService,
		metrics:      metricsSystem,
		health:       metricsHandler,
		cookieTTL:    cfg.Auth.TokenTTL,
		secureCookie: cfg.App.IsProduction(),
		frontendURL:  cfg.App.FrontendURL,
		logger:       logger,
		mux:          http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.frontendURL != "" {
		w.Header().Set("Access-Control-Allow-Origin", s.frontendURL)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	s.mux.HandleFunc("GET /api/auth/me", s.handleMe)

	s.mux.HandleFunc("POST /api/tts/generate", s.handleGenerate)
	s.mux.HandleFunc("GET /api/tts/history", s.handleHistory)
	s.mux.HandleFunc("GET /api/tts/voices", s.handleVoices)

	s.mux.HandleFunc("POST /api/cartesia/generate", s.handleCartesiaGenerate)
	s.mux.HandleFunc("GET /api/cartesia/voices", s.handleCartesiaVoices)
	s.mux.HandleFunc("GET /api/cartesia/models", s.handleCartesiaModels)
	s.mux.HandleFunc("GET /api/cartesia/languages", s.handleCartesiaLanguages)

	s.mux.HandleFunc("GET /health", s.health.HealthHandler)
	s.mux.HandleFunc("GET /ready", s.health.ReadyHandler)
	s.mux.Handle("GET /metrics", s.health.MetricsHandler())
}

// requireUser разрешает пользователя по токену запроса.
// При любом отказе отвечает единым 401 и возвращает false
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	u, err := s.gate.Resolve(r)
	if err != nil {
		s.metrics.RecordAuthDenied()
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return u, true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
