package http

import (
	"context"
	"net/http"
	"strconv"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/service"
)

func (h *Handler) AddBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req bookingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	start, err := ParseTime(req.Start)
	if err != nil {
		writeError(w, r, domain.Wrap(domain.KindInvalidArgument, "invalid booking start", err))
		return
	}
	end, err := ParseTime(req.End)
	if err != nil {
		writeError(w, r, domain.Wrap(domain.KindInvalidArgument, "invalid booking end", err))
		return
	}

	booking, err := h.bookings.AddBooking(r.Context(), bookerID, service.BookingRequest{ItemID: req.ItemID, Start: start, End: end})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(*booking))
}

func (h *Handler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, r, domain.NewInvalidArgument("approved must be true or false"))
		return
	}

	booking, err := h.bookings.ApproveBooking(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(*booking))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(*booking))
}

func (h *Handler) ListByBooker(w http.ResponseWriter, r *http.Request) {
	h.listBookings(w, r, h.bookings.ListByBooker)
}

func (h *Handler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	h.listBookings(w, r, h.bookings.ListByOwner)
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID int64, state domain.BookingState) ([]domain.Booking, error)) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	state, err := domain.ParseBookingState(r.URL.Query().Get("state"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	bookings, err := list(r.Context(), userID, state)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}
