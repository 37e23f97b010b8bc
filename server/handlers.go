package server

import (
	"encoding/json"
	"net/http"

	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/server/service"
	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ResponsePayload struct {
	Errors  []string    `json:"errors"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type CreateContactRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required"`
	UserID string `json:"user_id" validate:"required,uuid4"`
}

var (
	userUpdateTags    = map[string]string{"name": "", "email": "email"}
	contactUpdateTags = map[string]string{"name": "", "email": "email", "phone": ""}
)

type handlers struct {
	users    *service.UserService
	contacts *service.ContactService
	validate *validator.Validate
	logg     *zap.SugaredLogger
}

func newHandlers(users *service.UserService, contacts *service.ContactService, logg *zap.SugaredLogger) *handlers {
	return &handlers{
		users:    users,
		contacts: contacts,
		validate: validator.New(),
		logg:     logg,
	}
}

func (h *handlers) health(rw http.ResponseWriter, r *http.Request) {
	h.writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Users
// --------------------------------------------------------------------------------//

func (h *handlers) createUser(rw http.ResponseWriter, r *http.Request) {
	data := CreateUserRequest{}

	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		h.writeErrors(rw, http.StatusBadRequest, err.Error())
		return
	}

	err = h.validate.Struct(data)
	if err != nil {
		h.writeResponse(rw, ResponsePayload{Errors: validationErrors(err)}, http.StatusBadRequest)
		return
	}

	user, err := h.users.Create(r.Context(), data.Name, data.Email)
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	h.writeData(rw, user, http.StatusCreated)
}

// listUsers lists every user, or looks a single one up when ?email= is set.
func (h *handlers) listUsers(rw http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email != "" {
		user, err := h.users.GetByEmail(r.Context(), email)
		if err != nil {
			h.writeServiceError(rw, err)
			return
		}

		if user == nil {
			h.writeErrors(rw, http.StatusNotFound, "user not found")
			return
		}

		h.writeData(rw, user, http.StatusOK)
		return
	}

	users, err := h.users.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	h.writeData(rw, users, http.StatusOK)
}

func (h *handlers) findUser(rw http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	if user == nil {
		h.writeErrors(rw, http.StatusNotFound, "user not found")
		return
	}

	h.writeData(rw, user, http.StatusOK)
}

func (h *handlers) updateUser(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	data := make(map[string]interface{})

	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		h.writeErrors(rw, http.StatusBadRequest, err.Error())
		return
	}

	removeUnknownFields(data, map[string]bool{"name": true, "email": true})
	if len(data) <= 0 {
		h.writeErrors(rw, http.StatusBadRequest, "valid fields required")
		return
	}

	fields, errs := stringFields(h.validate, data, userUpdateTags)
	if len(errs) > 0 {
		h.writeResponse(rw, ResponsePayload{Errors: errs}, http.StatusBadRequest)
		return
	}

	current, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	if current == nil {
		h.writeErrors(rw, http.StatusNotFound, "user not found")
		return
	}

	// Fields not in the request keep their current values
	name := valueOr(fields, "name", current.Name)
	email := valueOr(fields, "email", current.Email)

	user, err := h.users.Update(r.Context(), id, models.UserFields{Name: &name, Email: &email})
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	h.writeData(rw, user, http.StatusOK)
}

func (h *handlers) deleteUser(rw http.ResponseWriter, r *http.Request) {
	user, err := h.users.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	h.writeData(rw, user, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Contacts
// --------------------------------------------------------------------------------//

func (h *handlers) createContact(rw http.ResponseWriter, r *http.Request) {
	data := CreateContactRequest{}

	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		h.writeErrors(rw, http.StatusBadRequest, err.Error())
		return
	}

	// Contacts created under /users/{uid}/contacts belong to that user
	if uid := mux.Vars(r)["uid"]; uid != "" {
		data.UserID = uid
	}

	err = h.validate.Struct(data)
	if err != nil {
		h.writeResponse(rw, ResponsePayload{Errors: validationErrors(err)}, http.StatusBadRequest)
		return
	}

	contact, err := h.contacts.Create(r.Context(), data.Name, data.Email, data.Phone, data.UserID)
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	h.writeData(rw, contact, http.StatusCreated)
}

func (h *handlers) findContactByEmail(rw http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if err := h.validate.Var(email, "required,email"); err != nil {
		h.writeErrors(rw, http.StatusBadRequest, "a valid email query parameter is required")
		return
	}

	contact, err := h.contacts.GetByEmail(r.Context(), email)
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	if contact == nil {
		h.writeErrors(rw, http.StatusNotFound, "contact not found")
		return
	}

	h.writeData(rw, contact, http.StatusOK)
}

func (h *handlers) findContact(rw http.ResponseWriter, r *http.Request) {
	contact, err := h.contacts.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	if contact == nil {
		h.writeErrors(rw, http.StatusNotFound, "contact not found")
		return
	}

	h.writeData(rw, contact, http.StatusOK)
}

func (h *handlers) listUserContacts(rw http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.ListByUser(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	h.writeData(rw, contacts, http.StatusOK)
}

func (h *handlers) updateContact(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	data := make(map[string]interface{})

	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		h.writeErrors(rw, http.StatusBadRequest, err.Error())
		return
	}

	removeUnknownFields(data, map[string]bool{"name": true, "email": true, "phone": true})
	if len(data) <= 0 {
		h.writeErrors(rw, http.StatusBadRequest, "valid fields required")
		return
	}

	fields, errs := stringFields(h.validate, data, contactUpdateTags)
	if len(errs) > 0 {
		h.writeResponse(rw, ResponsePayload{Errors: errs}, http.StatusBadRequest)
		return
	}

	current, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	if current == nil {
		h.writeErrors(rw, http.StatusNotFound, "contact not found")
		return
	}

	// Fields not in the request keep their current values
	name := valueOr(fields, "name", current.Name)
	email := valueOr(fields, "email", current.Email)
	phone := valueOr(fields, "phone", current.Phone)

	contact, err := h.contacts.Update(r.Context(), id, models.ContactFields{Name: &name, Email: &email, Phone: &phone})
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	h.writeData(rw, contact, http.StatusOK)
}

func (h *handlers) deleteContact(rw http.ResponseWriter, r *http.Request) {
	contact, err := h.contacts.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(rw, err)
		return
	}

	h.writeData(rw, contact, http.StatusOK)
}
