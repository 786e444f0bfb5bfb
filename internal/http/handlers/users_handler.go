package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/frontdesk/vms/internal/domain"
	mw "github.com/frontdesk/vms/internal/http/middleware"
	"github.com/frontdesk/vms/internal/http/response"
	"github.com/frontdesk/vms/internal/service"
)

type UsersHandler struct {
	svc          service.UserService
	sess         *mw.Session
	loginLimiter func(http.Handler) http.Handler
}

func NewUsersHandler(svc service.UserService, sess *mw.Session, loginLimiter func(http.Handler) http.Handler) *UsersHandler {
	return &UsersHandler{svc: svc, sess: sess, loginLimiter: loginLimiter}
}

func (h *UsersHandler) Routes() chi.Router {
	r := chi.NewRouter()

	if h.loginLimiter != nil {
		r.With(h.loginLimiter).Post("/login", h.login)
	} else {
		r.Post("/login", h.login)
	}

	// Open so the first admin account can be bootstrapped; the
	// single-admin rule and role checks live in the service.
	r.Post("/", h.create)

	r.Group(func(r chi.Router) {
		r.Use(h.sess.RequireAuth)
		r.Get("/me", h.me)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.With(h.sess.RequireRole(domain.RoleAdmin)).Delete("/{id}", h.delete)
	})

	return r
}

func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	res, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, res)
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	user, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, user.ToUserInfo())
}

func (h *UsersHandler) me(w http.ResponseWriter, r *http.Request) {
	actor, ok := mw.ActorFrom(r)
	if !ok {
		response.Unauthorized(w, "not logged in")
		return
	}

	user, err := h.svc.Get(r.Context(), actor.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, user.ToUserInfo())
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	infos := make([]*domain.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, users[i].ToUserInfo())
	}
	response.WriteJSON(w, http.StatusOK, infos)
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid id")
		return
	}

	user, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, user.ToUserInfo())
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
