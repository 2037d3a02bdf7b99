package sheets

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"special-requests/internal/models"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// parseRow reads one row. Rows without a ticket id or a row number cannot be
// grouped or addressed and are reported as not ok.
func parseRow(v gjson.Result) (models.Row, bool) {
	if !v.IsObject() {
		return models.Row{}, false
	}
	id := strings.TrimSpace(v.Get("id").String())
	if id == "" {
		return models.Row{}, false
	}
	handle := v.Get("row")
	if !handle.Exists() || handle.Int() <= 0 {
		return models.Row{}, false
	}

	status, ok := models.ParseStatus(strings.TrimSpace(v.Get("status").String()))
	if !ok {
		status = models.StatusPending
	}
	qty := int(v.Get("qty").Int())
	if qty < 0 {
		qty = 0
	}

	return models.Row{
		TicketID:        id,
		SubmittedAt:     parseDate(v.Get("date").String()),
		Store:           v.Get("store").String(),
		ItemCode:        v.Get("procode").String(),
		ItemDescription: v.Get("prodesc").String(),
		Quantity:        qty,
		Reason:          v.Get("reason").String(),
		Status:          status,
		SubmitterEmail:  v.Get("email").String(),
		Handle:          int(handle.Int()),
	}, true
}

// parseDate returns the zero time when s matches no known layout; such rows
// sort after every dated ticket.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
