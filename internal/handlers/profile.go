package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/seobrien/jobledger/internal/httpx"
	"github.com/seobrien/jobledger/internal/models"
	"github.com/seobrien/jobledger/internal/services"
)

// ProfileHandler serves the business profile and app settings endpoints.
type ProfileHandler struct {
	Svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{Svc: svc}
}

// View: GET /profile
func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Svc.GetBusinessProfile()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_profile", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

// Update: POST /profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var profile models.BusinessProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	updated, err := h.Svc.UpdateBusinessProfile(&profile)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_profile", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Settings: GET /settings
func (h *ProfileHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Svc.GetAppSettings()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

// UpdateSetting: POST /settings/{key}
func (h *ProfileHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_key", nil)
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Svc.UpdateAppSetting(key, req.Value); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_setting", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}
