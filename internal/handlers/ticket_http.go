package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"special-requests/internal/models"
	"special-requests/internal/repository"
	"special-requests/internal/service"
	"special-requests/internal/tickets"
	"special-requests/internal/utils"
)

const (
	msgLoadAdmin    = "Failed to load admin data."
	msgLoadTracking = "Failed to load tracking data."
	msgLoadItems    = "Failed to load item master data."
	msgUpdateStatus = "Failed to update status."
	msgSubmit       = "Failed to submit request."
)

// parseQuery reads ?q= and ?status=. An empty or "all" status matches every
// ticket; any other value must be a known status.
func parseQuery(r *http.Request) (tickets.Query, bool) {
	qv := r.URL.Query()
	q := tickets.Query{Text: strings.TrimSpace(qv.Get("q"))}
	raw := strings.TrimSpace(qv.Get("status"))
	if raw == "" || strings.EqualFold(raw, "all") {
		return q, true
	}
	s, ok := models.ParseStatus(raw)
	if !ok {
		return q, false
	}
	q.Status = s
	return q, true
}

// writeList answers a list request. A load failure still carries the last
// good tickets, flagged stale.
func writeList(w http.ResponseWriter, items []models.Ticket, err error, notice string) {
	w.Header().Set("X-Total-Count", strconv.Itoa(len(items)))
	if err != nil {
		utils.JSON(w, http.StatusBadGateway, map[string]any{
			"error": notice,
			"items": items,
			"total": len(items),
			"stale": true,
		})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// -----------------------------------------------------------------------------
// Admin board
// -----------------------------------------------------------------------------

type AdminTicketHTTP struct {
	admin *service.AdminDashboard
	log   zerolog.Logger
}

func NewAdminTicketHTTP(admin *service.AdminDashboard, log zerolog.Logger) *AdminTicketHTTP {
	return &AdminTicketHTTP{admin: admin, log: log}
}

// GET /api/admin/requests?q=&status=
func (h *AdminTicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := parseQuery(r)
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid status")
			return
		}
		items, err := h.admin.List(r.Context(), q)
		writeList(w, items, err, msgLoadAdmin)
	}
}

// GET /api/admin/requests/{id}
func (h *AdminTicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := h.admin.Get(r.Context(), chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			utils.Error(w, http.StatusNotFound, "not found")
			return
		case err != nil:
			utils.Error(w, http.StatusBadGateway, msgLoadAdmin)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// PATCH /api/admin/requests/{id}/status
// Every row of the ticket is written. When some writes fail the response is
// 502 with the counts; rows already written keep the new status.
func (h *AdminTicketHTTP) UpdateStatus() http.HandlerFunc {
	type inDTO struct {
		Status string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		status, ok := models.ParseStatus(strings.TrimSpace(in.Status))
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid status")
			return
		}

		t, res, err := h.admin.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			utils.Error(w, http.StatusNotFound, "not found")
			return
		case errors.Is(err, tickets.ErrPartialWrite):
			utils.JSON(w, http.StatusBadGateway, map[string]any{
				"error":     msgUpdateStatus,
				"attempted": res.Attempted,
				"succeeded": res.Succeeded,
				"failed":    res.Failed,
			})
			return
		case err != nil:
			utils.Error(w, http.StatusBadGateway, msgLoadAdmin)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// GET /api/admin/requests/summary?q=&status=
func (h *AdminTicketHTTP) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := parseQuery(r)
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid status")
			return
		}
		text, err := h.admin.Summary(r.Context(), q)
		if err != nil {
			utils.Error(w, http.StatusBadGateway, msgLoadAdmin)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"summary": text})
	}
}

// -----------------------------------------------------------------------------
// Submitter tracking
// -----------------------------------------------------------------------------

type SubmitterTicketHTTP struct {
	sub *service.SubmitterDashboard
	log zerolog.Logger
}

func NewSubmitterTicketHTTP(sub *service.SubmitterDashboard, log zerolog.Logger) *SubmitterTicketHTTP {
	return &SubmitterTicketHTTP{sub: sub, log: log}
}

// GET /api/requests?q=&status=
func (h *SubmitterTicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := utils.UserFrom(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		q, ok := parseQuery(r)
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid status")
			return
		}
		items, err := h.sub.List(r.Context(), u.Email, q)
		writeList(w, items, err, msgLoadTracking)
	}
}

// GET /api/requests/{id}
func (h *SubmitterTicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := utils.UserFrom(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		t, err := h.sub.Get(r.Context(), u.Email, chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			utils.Error(w, http.StatusNotFound, "not found")
			return
		case err != nil:
			utils.Error(w, http.StatusBadGateway, msgLoadTracking)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// POST /api/requests
// Store and email come from the session, never from the body.
func (h *SubmitterTicketHTTP) Submit() http.HandlerFunc {
	type inDTO struct {
		Items []models.DraftItem `json:"items"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := utils.UserFrom(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		msg, err := h.sub.Submit(r.Context(), u, in.Items)
		var rej *repository.RejectedError
		switch {
		case errors.Is(err, service.ErrNoItems), errors.Is(err, service.ErrIncompleteItem):
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		case errors.As(err, &rej):
			utils.Error(w, http.StatusBadRequest, rej.Message)
			return
		case err != nil:
			h.log.Error().Err(err).Str("store", u.StoreCode).Msg("submit request")
			utils.Error(w, http.StatusBadGateway, msgSubmit)
			return
		}
		utils.JSON(w, http.StatusCreated, map[string]string{"message": msg})
	}
}

// GET /api/items?q=&limit=
func (h *SubmitterTicketHTTP) SearchItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		limit := utils.QueryInt(qv, "limit", 10, 1, 50)
		items, err := h.sub.SearchItems(r.Context(), qv.Get("q"), limit)
		if err != nil {
			h.log.Warn().Err(err).Msg("master item search")
			utils.Error(w, http.StatusBadGateway, msgLoadItems)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}
