package handlers

import (
	"net/http"

	"special-requests/internal/utils"
)

func Health(store string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok", "rowStore": store})
	}
}
