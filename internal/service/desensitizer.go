package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/models"
)

// MaskPlaceholder replaces sensitive user fields shown to other users.
const MaskPlaceholder = "******"

var maskedValue = json.RawMessage(`"` + MaskPlaceholder + `"`)

type userDesensitizer struct {
	fields []string
}

// NewDesensitizer masks [models.SensitiveUserFields].
func NewDesensitizer() Desensitizer {
	return &userDesensitizer{fields: models.SensitiveUserFields}
}

func (d *userDesensitizer) Desensitize(ctx context.Context, entries []models.LogEntry, requesterID string) {
	for i := range entries {
		entry := &entries[i]
		if !d.applies(entry, requesterID) {
			continue
		}

		masked, err := d.mask(entry.OperateData)
		if err != nil {
			// historical payloads are served as stored rather than failing the round
			logger.FromContext(ctx).Warn().Err(err).
				Str("func", "userDesensitizer.Desensitize").
				Str("log_id", entry.ID).
				Msg("cannot parse user payload, leaving it unmasked")
			continue
		}
		entry.OperateData = masked
	}
}

func (d *userDesensitizer) applies(entry *models.LogEntry, requesterID string) bool {
	if entry.BusinessType != models.BusinessTypeUser || entry.BelongsTo(requesterID) {
		return false
	}
	return entry.OperateType == models.OperateTypeCreate || entry.OperateType == models.OperateTypeUpdate
}

func (d *userDesensitizer) mask(operateData string) (string, error) {
	// values stay raw so numbers and nested objects pass through untouched
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(operateData), &payload); err != nil {
		return "", err
	}

	changed := false
	for _, field := range d.fields {
		if _, ok := payload[field]; ok {
			payload[field] = maskedValue
			changed = true
		}
	}
	if !changed {
		return operateData, nil
	}

	masked, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(masked), nil
}
