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

type VisitorsHandler struct {
	svc  service.VisitService
	sess *mw.Session
	idem func(http.Handler) http.Handler
}

func NewVisitorsHandler(svc service.VisitService, sess *mw.Session, idem func(http.Handler) http.Handler) *VisitorsHandler {
	return &VisitorsHandler{svc: svc, sess: sess, idem: idem}
}

func (h *VisitorsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Registration happens at the front desk before anyone is logged
	// in, so these two stay open like the credentialless kiosk flow.
	if h.idem != nil {
		r.With(h.idem).Post("/register", h.register)
	} else {
		r.Post("/register", h.register)
	}
	r.Post("/{id}/visits", h.addVisit)

	r.Group(func(r chi.Router) {
		r.Use(h.sess.RequireAuth)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})

	return r
}

type registerVisitorResponse struct {
	Visitor *domain.Visitor `json:"visitor"`
	Visit   *domain.Visit   `json:"visit"`
}

func (h *VisitorsHandler) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterVisitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	visitor, visit, err := h.svc.RegisterVisit(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, registerVisitorResponse{Visitor: visitor, Visit: visit})
}

func (h *VisitorsHandler) addVisit(w http.ResponseWriter, r *http.Request) {
	visitorID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid visitor id")
		return
	}

	var req domain.AddVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	visit, err := h.svc.AddVisit(r.Context(), visitorID, &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, visit)
}

func (h *VisitorsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.BadRequest(w, "invalid limit")
			return
		}
		limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.BadRequest(w, "invalid offset")
			return
		}
		offset = n
	}

	visitors, err := h.svc.ListVisitors(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, visitors)
}

type visitorWithHistoryResponse struct {
	Visitor *domain.Visitor      `json:"visitor"`
	Visits  []domain.VisitDetail `json:"visits"`
}

func (h *VisitorsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid visitor id")
		return
	}

	visitor, visits, err := h.svc.GetVisitor(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, visitorWithHistoryResponse{Visitor: visitor, Visits: visits})
}
