package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/warung/internal/domain/request"
)

// MenuHandler serves the /api/menu routes.
type MenuHandler struct {
	deps Dependencies
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(deps Dependencies) *MenuHandler {
	return &MenuHandler{deps: deps}
}

// HandleList handles GET /api/menu.
func (h *MenuHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "", h.deps.List(r.Context()))
}

// HandleGet handles GET /api/menu/{id}.
func (h *MenuHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.deps.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", item)
}

// HandleCreate handles POST /api/menu.
func (h *MenuHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := request.DecodeMenu(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.deps.Create(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, MsgCreated, item)
}

// HandleUpdate handles PUT /api/menu/{id}.
func (h *MenuHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := request.DecodeMenu(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.deps.Update(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, MsgUpdated, item)
}

// HandleDelete handles DELETE /api/menu/{id}. The body is optional.
func (h *MenuHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, err := request.DecodeOwner(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.deps.Delete(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, MsgDeleted, item)
}
