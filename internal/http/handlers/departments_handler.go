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

type DepartmentsHandler struct {
	svc  service.DepartmentService
	sess *mw.Session
}

func NewDepartmentsHandler(svc service.DepartmentService, sess *mw.Session) *DepartmentsHandler {
	return &DepartmentsHandler{svc: svc, sess: sess}
}

func (h *DepartmentsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.sess.RequireAuth, h.sess.RequireRole(domain.RoleAdmin)).Post("/", h.create)

	// Read-only support queries used before a visit is created
	r.Get("/", h.list)
	r.Get("/{departmentID}/hosts", h.hosts)

	return r
}

func (h *DepartmentsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	dept, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, dept)
}

func (h *DepartmentsHandler) list(w http.ResponseWriter, r *http.Request) {
	depts, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, depts)
}

func (h *DepartmentsHandler) hosts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "departmentID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid department id")
		return
	}

	hosts, err := h.svc.ListHosts(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	infos := make([]*domain.UserInfo, 0, len(hosts))
	for i := range hosts {
		infos = append(infos, hosts[i].ToUserInfo())
	}
	response.WriteJSON(w, http.StatusOK, infos)
}
