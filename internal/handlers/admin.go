package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"salon-booking-backend/internal/services"
	"salon-booking-backend/internal/sessions"

	"github.com/rs/zerolog/log"
)

// SessionManager creates, resolves and ends admin sessions on a request
type SessionManager interface {
	Start(w http.ResponseWriter, r *http.Request, admin bool) (*sessions.Session, error)
	Load(r *http.Request) (*sessions.Session, bool)
	End(w http.ResponseWriter, r *http.Request) error
}

// LoginRequest represents the admin login body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse reports whether the caller holds an admin session
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// AdminHandler handles admin authentication HTTP requests
type AdminHandler struct {
	adminService *services.AdminService
	sessions     SessionManager
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService, sessions SessionManager) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		sessions:     sessions,
	}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req LoginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	if err := h.adminService.Authenticate(req.Username, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().
				Str("remote_addr", r.RemoteAddr).
				Msg("Admin login failed")
			respondError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Msg("Failed to authenticate admin")
		respondError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	sess, err := h.sessions.Start(w, r, true)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start admin session")
		respondError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("session_id", sess.ID).
		Time("expires_at", sess.ExpiresAt).
		Msg("Admin logged in")

	respondJSON(w, SuccessResponse{Success: true}, http.StatusOK)
}

// Logout handles POST /api/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		log.Error().Err(err).Msg("Failed to end admin session")
		respondError(w, "Failed to log out", http.StatusInternalServerError)
		return
	}

	respondJSON(w, SuccessResponse{Success: true}, http.StatusOK)
}

// Session handles GET /api/admin/session
func (h *AdminHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Load(r)
	respondJSON(w, SessionResponse{Authenticated: ok && sess.Admin}, http.StatusOK)
}
