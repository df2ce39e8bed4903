// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/ledger-sync/internal/app"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/utils"
	"github.com/MKhiriev/ledger-sync/models"
)

// sync runs one synchronization round for the authenticated user. Per-entry
// failures are part of a 200 response; only a round that could not be
// processed at all yields an error status.
func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.sync").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	var syncRequest models.SyncRequest
	if err := utils.ReadJSON(r.Body, &syncRequest); err != nil {
		log.Err(err).Str("func", "*Handler.sync").Msg("invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	response, err := h.services.SyncService.Sync(ctx, userID, syncRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.sync").Msg("sync round failed")
		http.Error(w, messageFromError(err), statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) initialSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.initialSync").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	response, err := h.services.SyncService.InitialSync(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.initialSync").Msg("initial sync failed")
		http.Error(w, messageFromError(err), statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
