package httpapi

import (
	"encoding/json"
	"net/http"

	"voicelab-pro/pkg/models"
)

// handleCartesiaGenerate генерирует речь через Cartesia
func (s *Server) handleCartesiaGenerate(w http.ResponseWriter, r *http.Request) {
	u, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.generate(w, r, u, req, s.cartesia, "audio/wav")
}

// handleCartesiaVoices возвращает список голосов Cartesia
func (s *Server) handleCartesiaVoices(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	voices := s.catalog.Voices(r.Context(), s.cartesia)
	respondJSON(w, http.StatusOK, map[string]any{"voices": voices})
}

// handleCartesiaModels возвращает список моделей Cartesia
func (s *Server) handleCartesiaModels(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"models": s.catalog.CartesiaModels()})
}

// handleCartesiaLanguages возвращает список поддерживаемых языков Cartesia
func (s *Server) handleCartesiaLanguages(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"languages": s.catalog.CartesiaLanguages()})
}
