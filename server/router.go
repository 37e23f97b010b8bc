package server

import (
	"net/http"

	"github.com/Daskott/rolodex/server/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func NewRouter(users *service.UserService, contacts *service.ContactService, logg *zap.SugaredLogger) http.Handler {
	h := newHandlers(users, contacts, logg)

	router := mux.NewRouter()
	router.Use(loggingMiddleware(logg))
	router.Use(jsonContentMiddleware)
	router.Use(h.validIDMiddleware)

	router.HandleFunc("/health", h.health).Methods("GET")

	userRouter := router.PathPrefix("/users").Subrouter()
	userRouter.HandleFunc("", h.listUsers).Methods("GET")
	userRouter.HandleFunc("", h.createUser).Methods("POST")
	userRouter.HandleFunc("/{id}", h.findUser).Methods("GET")
	userRouter.HandleFunc("/{id}", h.updateUser).Methods("PATCH")
	userRouter.HandleFunc("/{id}", h.deleteUser).Methods("DELETE")
	userRouter.HandleFunc("/{uid}/contacts", h.listUserContacts).Methods("GET")
	userRouter.HandleFunc("/{uid}/contacts", h.createContact).Methods("POST")

	contactRouter := router.PathPrefix("/contacts").Subrouter()
	contactRouter.HandleFunc("", h.findContactByEmail).Methods("GET")
	contactRouter.HandleFunc("", h.createContact).Methods("POST")
	contactRouter.HandleFunc("/user/{uid}", h.listUserContacts).Methods("GET")
	contactRouter.HandleFunc("/{id}", h.findContact).Methods("GET")
	contactRouter.HandleFunc("/{id}", h.updateContact).Methods("PATCH")
	contactRouter.HandleFunc("/{id}", h.deleteContact).Methods("DELETE")

	return router
}
