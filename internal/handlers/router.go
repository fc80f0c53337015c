package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/busdepo/marketplace-api/internal/middleware"
)

// Handlers bundles the resource handlers for route wiring.
type Handlers struct {
	Vehicles *VehicleHandler
	Spares   *SpareHandler
	Users    *UserHandler
	Makes    *MakeHandler
	Auth     *AuthHandler
}

// NewRouter builds the dispatch table. Mutating and owner-scoped routes
// require authentication; public reads do not.
func NewRouter(h Handlers, authMW *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondMessage(w, http.StatusOK, "ok")
	}).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	v := r.PathPrefix("/vehicle").Subrouter()
	v.HandleFunc("/add", authMW.RequireAuth(h.Vehicles.Create)).Methods(http.MethodPost)
	v.HandleFunc("/all-vehicles", h.Vehicles.ListAll).Methods(http.MethodGet)
	v.HandleFunc("/user/all", authMW.RequireAuth(h.Vehicles.ListByUser)).Methods(http.MethodGet)
	v.HandleFunc("/search", h.Vehicles.Search).Methods(http.MethodPost)
	v.HandleFunc("/make-counts", h.Vehicles.MakeCounts).Methods(http.MethodGet)
	v.HandleFunc("/locations", h.Vehicles.Locations).Methods(http.MethodGet)
	v.HandleFunc("/{id}", h.Vehicles.GetByID).Methods(http.MethodGet)
	v.HandleFunc("/{id}", authMW.RequireAuth(h.Vehicles.Update)).Methods(http.MethodPut)
	v.HandleFunc("/{id}", authMW.RequireAuth(h.Vehicles.Delete)).Methods(http.MethodDelete)

	s := r.PathPrefix("/spare").Subrouter()
	s.HandleFunc("/add", authMW.RequireAuth(h.Spares.Create)).Methods(http.MethodPost)
	s.HandleFunc("/all-spares", h.Spares.ListAll).Methods(http.MethodGet)
	s.HandleFunc("/user/all", authMW.RequireAuth(h.Spares.ListByUser)).Methods(http.MethodGet)
	s.HandleFunc("/search", h.Spares.Search).Methods(http.MethodPost)
	s.HandleFunc("/make-counts", h.Spares.MakeCounts).Methods(http.MethodGet)
	s.HandleFunc("/locations", h.Spares.Locations).Methods(http.MethodGet)
	s.HandleFunc("/{id}", h.Spares.GetByID).Methods(http.MethodGet)
	s.HandleFunc("/{id}", authMW.RequireAuth(h.Spares.Update)).Methods(http.MethodPut)
	s.HandleFunc("/{id}", authMW.RequireAuth(h.Spares.Delete)).Methods(http.MethodDelete)

	r.HandleFunc("/user/all", h.Users.ListAll).Methods(http.MethodGet)
	r.HandleFunc("/user/{id}", h.Users.GetByID).Methods(http.MethodGet)

	r.HandleFunc("/makes", h.Makes.ListAll).Methods(http.MethodGet)

	return r
}
