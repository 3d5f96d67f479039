package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"shareit-backend/internal/service"
)

// Handler serves the ShareIt REST API.
type Handler struct {
	users    service.UserService
	items    service.ItemService
	bookings service.BookingService
	requests service.ItemRequestService
}

func NewHandler(
	users service.UserService,
	items service.ItemService,
	bookings service.BookingService,
	requests service.ItemRequestService,
) *Handler {
	return &Handler{users: users, items: items, bookings: bookings, requests: requests}
}

// NewRouter wires every route of h behind the request logger.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(Recoverer, RequestLogger)
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", h.AddUser).Methods(http.MethodPost)
	router.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	router.HandleFunc("/users/{id:[0-9]+}", h.GetUser).Methods(http.MethodGet)
	router.HandleFunc("/users/{id:[0-9]+}", h.UpdateUser).Methods(http.MethodPatch)
	router.HandleFunc("/users/{id:[0-9]+}", h.DeleteUser).Methods(http.MethodDelete)

	router.HandleFunc("/items", h.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/items", h.ListOwnerItems).Methods(http.MethodGet)
	router.HandleFunc("/items/search", h.SearchItems).Methods(http.MethodGet)
	router.HandleFunc("/items/{id:[0-9]+}", h.GetItem).Methods(http.MethodGet)
	router.HandleFunc("/items/{id:[0-9]+}", h.UpdateItem).Methods(http.MethodPatch)
	router.HandleFunc("/items/{id:[0-9]+}/comment", h.AddComment).Methods(http.MethodPost)

	router.HandleFunc("/bookings", h.AddBooking).Methods(http.MethodPost)
	router.HandleFunc("/bookings", h.ListByBooker).Methods(http.MethodGet)
	router.HandleFunc("/bookings/owner", h.ListByOwner).Methods(http.MethodGet)
	router.HandleFunc("/bookings/{id:[0-9]+}", h.GetBooking).Methods(http.MethodGet)
	router.HandleFunc("/bookings/{id:[0-9]+}", h.ApproveBooking).Methods(http.MethodPatch)

	router.HandleFunc("/requests", h.CreateRequest).Methods(http.MethodPost)
	router.HandleFunc("/requests", h.ListOwnRequests).Methods(http.MethodGet)
	router.HandleFunc("/requests/all", h.ListOtherRequests).Methods(http.MethodGet)
	router.HandleFunc("/requests/{id:[0-9]+}", h.GetRequest).Methods(http.MethodGet)
}
