package api

import (
	"github.com/everyonewrite/writeguide/internal/auth"
	"github.com/gorilla/mux"
)

func SetupRoutes(authHandler *AuthHandler, assistantHandler *AssistantHandler, orderHandler *OrderHandler, verifier auth.Verifier, users auth.UserResolver) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", authHandler.Login).Methods("POST")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware(verifier, users))
	protected.HandleFunc("/balance", assistantHandler.Balance).Methods("GET")
	protected.HandleFunc("/writing-guidance", assistantHandler.Guidance).Methods("POST")
	protected.HandleFunc("/tasks", assistantHandler.Tasks).Methods("GET")
	protected.HandleFunc("/orders", orderHandler.List).Methods("GET")
	protected.HandleFunc("/orders", orderHandler.Create).Methods("POST")
	protected.HandleFunc("/orders", orderHandler.Confirm).Methods("PUT")

	return r
}
