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

type VisitsHandler struct {
	svc  service.VisitService
	sess *mw.Session
}

func NewVisitsHandler(svc service.VisitService, sess *mw.Session) *VisitsHandler {
	return &VisitsHandler{svc: svc, sess: sess}
}

func (h *VisitsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.sess.RequireAuth)

	r.Get("/", h.list)
	r.Patch("/{id}/status", h.updateStatus)
	r.Put("/{id}/checkin", h.checkIn)
	r.Put("/{id}/checkout", h.checkOut)

	return r
}

func (h *VisitsHandler) list(w http.ResponseWriter, r *http.Request) {
	var filter domain.VisitFilter

	if v := r.URL.Query().Get("status"); v != "" {
		status, ok := domain.ParseVisitStatus(v)
		if !ok {
			response.BadRequest(w, "invalid status")
			return
		}
		filter.Status = status
	}

	var err error
	if filter.HostID, err = queryInt64(r, "host"); err != nil {
		response.BadRequest(w, "invalid host id")
		return
	}
	if filter.VisitorID, err = queryInt64(r, "visitor"); err != nil {
		response.BadRequest(w, "invalid visitor id")
		return
	}
	if filter.DepartmentID, err = queryInt64(r, "department"); err != nil {
		response.BadRequest(w, "invalid department id")
		return
	}
	if limit, err := queryInt64(r, "limit"); err == nil {
		filter.Limit = int(limit)
	} else {
		response.BadRequest(w, "invalid limit")
		return
	}
	if offset, err := queryInt64(r, "offset"); err == nil {
		filter.Offset = int(offset)
	} else {
		response.BadRequest(w, "invalid offset")
		return
	}

	visits, err := h.svc.ListVisits(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, visits)
}

func (h *VisitsHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid visit id")
		return
	}

	var req domain.UpdateVisitStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	status, ok := domain.ParseVisitStatus(req.Status)
	if !ok {
		response.BadRequest(w, "invalid status")
		return
	}

	actor, ok := mw.ActorFrom(r)
	if !ok {
		response.Unauthorized(w, "not logged in")
		return
	}

	visit, err := h.svc.Transition(r.Context(), id, status, actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, visit)
}

func (h *VisitsHandler) checkIn(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid visit id")
		return
	}

	actor, ok := mw.ActorFrom(r)
	if !ok {
		response.Unauthorized(w, "not logged in")
		return
	}

	visit, err := h.svc.CheckIn(r.Context(), id, actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, visit)
}

func (h *VisitsHandler) checkOut(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid visit id")
		return
	}

	actor, ok := mw.ActorFrom(r)
	if !ok {
		response.Unauthorized(w, "not logged in")
		return
	}

	visit, err := h.svc.CheckOut(r.Context(), id, actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, visit)
}

func queryInt64(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
