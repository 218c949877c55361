package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/model"
)

// maxBodyBytes bounds request bodies; chats are text, not uploads.
const maxBodyBytes = 8 << 20

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.List(r.Context()))
}

type createSessionRequest struct {
	Title string `json:"title"`
	Model string `json:"model"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := s.sessions.Create(r.Context(), req.Title, req.Model)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

type updateSessionRequest struct {
	Title *string `json:"title"`
	Model *string `json:"model"`
}

func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	err := s.sessions.Update(r.Context(), id, model.SessionPatch{Title: req.Title, Model: req.Model})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Current(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

type selectSessionRequest struct {
	ID string `json:"id"`
}

func (s *Server) selectSession(w http.ResponseWriter, r *http.Request) {
	var req selectSessionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.sessions.Select(r.Context(), req.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sendMessageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Model     string `json:"model"`
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.chatUC.Send(r.Context(), req.SessionID, req.Message, req.Model)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.chatUC.Models(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

type settingsView struct {
	FontSize      string `json:"fontSize"`
	AutoSave      bool   `json:"autoSave"`
	SoundEnabled  bool   `json:"soundEnabled"`
	Theme         string `json:"theme"`
	HasCredential bool   `json:"hasCredential"`
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	st := s.settings.Get(r.Context())
	// The credential itself never leaves the store.
	writeJSON(w, http.StatusOK, settingsView{
		FontSize:      st.FontSize,
		AutoSave:      st.AutoSave,
		SoundEnabled:  st.SoundEnabled,
		Theme:         st.Theme,
		HasCredential: st.APIKey != "",
	})
}

type updateSettingsRequest struct {
	APIKey       *string `json:"apiKey"`
	FontSize     *string `json:"fontSize"`
	AutoSave     *bool   `json:"autoSave"`
	SoundEnabled *bool   `json:"soundEnabled"`
	Theme        *string `json:"theme"`
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	ctx := r.Context()
	if req.APIKey != nil {
		if err := s.settings.SetAPIKey(ctx, *req.APIKey); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.FontSize != nil {
		if err := s.settings.SetFontSize(ctx, *req.FontSize); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.AutoSave != nil {
		if err := s.settings.SetAutoSave(ctx, *req.AutoSave); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.SoundEnabled != nil {
		if err := s.settings.SetSoundEnabled(ctx, *req.SoundEnabled); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Theme != nil {
		if err := s.settings.SetTheme(ctx, *req.Theme); err != nil {
			s.writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportChat(w http.ResponseWriter, r *http.Request) {
	data, err := s.transfer.ExportChat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="pishoo-chat.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) importChat(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := s.transfer.ImportChat(r.Context(), data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) exportSettings(w http.ResponseWriter, r *http.Request) {
	data, err := s.transfer.ExportSettings(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="pishoo-settings.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) importSettings(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.transfer.ImportSettings(r.Context(), data); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearAll(w http.ResponseWriter, r *http.Request) {
	if err := s.transfer.ClearAll(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- helpers ----

func decode(r *http.Request, into any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(into); err != nil {
		return domain.ErrInvalidArgument
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy to HTTP statuses; the body is a
// single line the UI can surface as a notification.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var apiErr *domain.APIError
	var transport *domain.TransportError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrImportParse):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrRequestInProgress):
		status = http.StatusConflict
	case errors.As(err, &apiErr), errors.Is(err, domain.ErrMalformedResponse):
		status = http.StatusBadGateway
	case errors.As(err, &transport):
		status = http.StatusGatewayTimeout
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
