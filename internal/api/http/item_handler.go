package http

import (
	"net/http"

	"shareit-backend/internal/domain"
)

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req itemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Available == nil {
		writeError(w, r, domain.NewInvalidArgument("item availability is required"))
		return
	}

	item := &domain.Item{Available: *req.Available, RequestID: req.RequestID}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}

	created, err := h.items.AddItem(r.Context(), ownerID, item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*created))
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req itemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	patch := domain.ItemPatch{Name: req.Name, Description: req.Description, Available: req.Available}
	item, err := h.items.UpdateItem(r.Context(), ownerID, itemID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item))
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	viewerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	details, err := h.items.GetItem(r.Context(), viewerID, itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDetailsResponse(*details))
}

func (h *Handler) ListOwnerItems(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.items.ListOwnerItems(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]itemDetailsResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toItemDetailsResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SearchItems(w http.ResponseWriter, r *http.Request) {
	list, err := h.items.SearchItems(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]itemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, toItemResponse(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	authorID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req commentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	comment, err := h.items.AddComment(r.Context(), authorID, itemID, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentResponse(*comment))
}
