package api

import (
	"net/http"

	"notebook/cmd/internal/notes"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleFetchAllNotes(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	ns, err := h.notes.ListNotes(r.Context(), caller)
	if err != nil {
		h.writeServiceError(w, r, "api.notes.list.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponses(ns))
}

func (h *Handler) handleAddNote(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	n, err := h.notes.CreateNote(r.Context(), caller, notes.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
	})
	if err != nil {
		h.writeServiceError(w, r, "api.notes.create.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

func (h *Handler) handleGetNote(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	n, err := h.notes.GetNote(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "api.notes.get.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

func (h *Handler) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	var req notePatchRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	n, err := h.notes.UpdateNote(r.Context(), caller, chi.URLParam(r, "id"), notes.Patch{
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
	})
	if err != nil {
		h.writeServiceError(w, r, "api.notes.update.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, updateNoteResponse{Note: toNoteResponse(n)})
}

func (h *Handler) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	n, err := h.notes.DeleteNote(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "api.notes.delete.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, deleteNoteResponse{
		Success: "Note has been deleted",
		Note:    toNoteResponse(n),
	})
}
