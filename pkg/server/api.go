package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/toastd/internal/errors"
	"github.com/vango-dev/toastd/pkg/toast"
)

// CreateResponse is the body of a successful POST /api/toasts.
type CreateResponse struct {
	Handle toast.Handle `json:"handle"`
}

// ListResponse is the body of GET /api/toasts. Overlay is nil when no
// notification is attached.
type ListResponse struct {
	Overlay *toast.Overlay       `json:"overlay"`
	Toasts  []toast.Notification `json:"toasts"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)

	var req toast.Request
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, errors.New("T021").WithDetailf("Limit is %d bytes", s.config.MaxBodyBytes))
			return
		}
		writeError(w, errors.New("T020").WithDetail(err.Error()))
		return
	}

	h := s.center.Submit(req)
	if h.IsZero() {
		writeError(w, errors.New("T022"))
		return
	}
	s.logger.Debug("toast created", "handle", string(h), "kind", req.Kind)
	writeJSON(w, http.StatusCreated, CreateResponse{Handle: h})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ov, ok, items := s.center.Snapshot()
	resp := ListResponse{Toasts: items}
	if ok {
		resp.Overlay = &ov
	}
	if resp.Toasts == nil {
		resp.Toasts = []toast.Notification{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDismiss always answers 204: dismissing twice or dismissing an
// unknown handle is not an error.
func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.center.Dismiss(toast.Handle(chi.URLParam(r, "handle")))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	s.center.Activate(toast.Handle(chi.URLParam(r, "handle")))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders err as {"error": {...}} with the status from its code.
func writeError(w http.ResponseWriter, err error) {
	te := errors.FromError(err, "T041")
	status := te.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]any{"error": te})
}
