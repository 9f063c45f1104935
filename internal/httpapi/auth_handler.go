package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"voicelab-pro/internal/auth"
	"voicelab-pro/internal/user"
	"voicelab-pro/pkg/models"

	"go.uber.org/zap"
)

// handleLogin проверяет учетные данные, выпускает токен и ставит cookie
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			s.metrics.RecordLogin(false)
			respondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		s.logger.Error("ошибка входа пользователя",
			zap.String("username", req.Username),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	auth.SetTokenCookie(w, token, s.cookieTTL, s.secureCookie)
	s.metrics.RecordLogin(true)

	s.logger.Info("пользователь вошел в систему",
		zap.String("username", u.Username),
		zap.String("user_id", u.ID.String()))

	respondJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: token,
		User:        u,
		Message:     "Login successful",
	})
}

// handleLogout сбрасывает cookie сессии
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w, s.secureCookie)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// handleMe возвращает текущего аутентифицированного пользователя
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, u)
}
