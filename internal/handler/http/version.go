package http

import (
	"net/http"

	"github.com/MKhiriev/ledger-sync/internal/app"
	"github.com/MKhiriev/ledger-sync/internal/utils"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())
	if serverVersion == "" {
		http.Error(w, app.MsgVersionIsNotSpecified, http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]string{"version": serverVersion}, http.StatusOK)
}
