package http

import (
	"net/http"

	"shareit-backend/internal/domain"
)

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req itemRequestRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.requests.CreateRequest(r.Context(), userID, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemRequestResponse(*created))
}

func (h *Handler) ListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.requests.ListOwnRequests(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeItemRequests(w, list)
}

func (h *Handler) ListOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	from, err := queryInt(r, "from", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	size, err := queryInt(r, "size", 10)
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := h.requests.ListOtherRequests(r.Context(), userID, from, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeItemRequests(w, list)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := h.requests.GetRequest(r.Context(), userID, requestID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemRequestResponse(*req))
}

func writeItemRequests(w http.ResponseWriter, list []domain.ItemRequestDetails) {
	out := make([]itemRequestResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toItemRequestResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}
