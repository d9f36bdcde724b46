package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finvoice/finvoice/pkg/profile"
	"github.com/finvoice/finvoice/pkg/session"
	log "github.com/sirupsen/logrus"
)

type loginRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ProfileDTO struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Language string `json:"language,omitempty"`
	Currency string `json:"currency,omitempty"`
	Theme    string `json:"theme,omitempty"`
}

type sessionDTO struct {
	Kind    string     `json:"kind"`
	UserID  string     `json:"userId"`
	Profile ProfileDTO `json:"profile"`
	// Offline flags sessions whose data stays on the device.
	Offline bool `json:"offline"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{userService}
}

// Login resolves the presented name and phone into a session. The response
// always succeeds for well-formed input: when the remote store cannot serve
// the profile, the session comes back as an offline local one.
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log.Debug("Resolving user session")
	w.Header().Set("Content-Type", "application/json")

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, err := handler.userService.Login(r.Context(), req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, ErrMissingCredentials) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(sessionDTO{
		Kind:    string(s.Kind),
		UserID:  s.Identity,
		Profile: ProfileToDTO(s.Profile),
		Offline: s.Kind == session.LocalOnly,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	handler.userService.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) Foreground(w http.ResponseWriter, r *http.Request) {
	handler.userService.Foreground(r.Context())
	w.WriteHeader(http.StatusAccepted)
}

func (handler *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	p, err := handler.userService.GetProfile(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ProfileToDTO(p)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// LookupByPhone reports the profile registered for a phone number, so the
// client can prefill the login form for a returning user.
func (handler *Handler) LookupByPhone(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	p, err := handler.userService.LookupByPhone(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		if errors.Is(err, ErrMissingPhone) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ProfileToDTO(p)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto ProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := handler.userService.UpdateProfile(r.Context(), DTOToProfile(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ProfileToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func ProfileToDTO(p profile.Profile) ProfileDTO {
	return ProfileDTO{
		ID:       p.ID,
		Name:     p.Name,
		Phone:    p.Phone,
		Language: p.Language,
		Currency: p.Currency,
		Theme:    p.Theme,
	}
}

func DTOToProfile(dto ProfileDTO) profile.Profile {
	return profile.Profile{
		ID:       dto.ID,
		Name:     dto.Name,
		Phone:    dto.Phone,
		Language: dto.Language,
		Currency: dto.Currency,
		Theme:    dto.Theme,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, session.ErrRemoteUnavailableOfflineMode):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, profile.ErrProfileNotFound):
		http.Error(w, "Profile not found", http.StatusNotFound)
	case errors.Is(err, session.ErrRemoteReadFailed), errors.Is(err, session.ErrRemoteWriteFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
