package handlers

import (
	"net/http"

	"special-requests/internal/models"
	"special-requests/internal/service"
	"special-requests/internal/utils"
)

type ReportsHTTP struct {
	admin *service.AdminDashboard
}

func NewReportsHTTP(admin *service.AdminDashboard) *ReportsHTTP { return &ReportsHTTP{admin: admin} }

// GET /api/admin/reports/status
// Returns: { Pending, Ongoing, Completed, Rejected, total } over the admin view.
func (h *ReportsHTTP) StatusCounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := h.admin.StatusCounts(r.Context())
		if err != nil {
			utils.Error(w, http.StatusBadGateway, msgLoadAdmin)
			return
		}
		out := make(map[string]int, len(counts)+1)
		total := 0
		for _, s := range models.Statuses {
			out[string(s)] = counts[s]
			total += counts[s]
		}
		out["total"] = total
		utils.JSON(w, http.StatusOK, out)
	}
}
