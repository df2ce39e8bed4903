// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/ledger-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldID targets the log entry id.
	FieldID = "id"

	// FieldBusinessType targets the replicated record kind. Attachments are
	// never replicated and are rejected.
	FieldBusinessType = "business_type"

	// FieldOperateType targets the operation kind.
	FieldOperateType = "operate_type"

	// FieldOperatorID targets the user that performed the operation.
	FieldOperatorID = "operator_id"

	// FieldOperatedAt targets the client logical timestamp.
	FieldOperatedAt = "operated_at"

	// FieldBusinessID targets the affected record key(s). Single-record
	// operations need exactly one; batch operations may leave it empty and
	// carry the keys in operateData.
	FieldBusinessID = "business_id"

	// FieldOperateData targets the JSON payload. Deletes may omit it.
	FieldOperateData = "operate_data"

	// FieldParent targets the parentType/parentId pair.
	FieldParent = "parent"

	// FieldLogs targets the entries of a sync request.
	FieldLogs = "logs"

	// FieldLastSyncTime targets the sync request cursor.
	FieldLastSyncTime = "last_sync_time"
)

var replicatedBusinessTypes = []models.BusinessType{
	models.BusinessTypeBook,
	models.BusinessTypeCategory,
	models.BusinessTypeItem,
	models.BusinessTypeShop,
	models.BusinessTypeSymbol,
	models.BusinessTypeFund,
	models.BusinessTypeFundBook,
	models.BusinessTypeBookMember,
	models.BusinessTypeUser,
}

var operateTypes = []models.OperateType{
	models.OperateTypeCreate,
	models.OperateTypeUpdate,
	models.OperateTypeDelete,
	models.OperateTypeBatchCreate,
	models.OperateTypeBatchUpdate,
	models.OperateTypeBatchDelete,
}

// LogEntryValidator implements [Validator] for [models.LogEntry] and
// [models.SyncRequest], by value or by pointer.
type LogEntryValidator struct {
}

func NewLogEntryValidator() Validator {
	return &LogEntryValidator{}
}

func (v *LogEntryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.LogEntry:
		return v.validateLogEntry(ctx, value, fields...)
	case *models.LogEntry:
		return v.validateLogEntry(ctx, *value, fields...)

	case models.SyncRequest:
		return v.validateSyncRequest(ctx, value, fields...)
	case *models.SyncRequest:
		return v.validateSyncRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *LogEntryValidator) validateLogEntry(_ context.Context, entry models.LogEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldBusinessType, FieldOperateType, FieldOperatorID, FieldOperatedAt, FieldBusinessID, FieldOperateData, FieldParent}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if entry.ID == "" {
				return ErrEmptyLogID
			}
		case FieldBusinessType:
			if !contains(replicatedBusinessTypes, entry.BusinessType) {
				return fmt.Errorf("%w: %q", ErrInvalidBusinessType, entry.BusinessType)
			}
		case FieldOperateType:
			if !contains(operateTypes, entry.OperateType) {
				return fmt.Errorf("%w: %q", ErrInvalidOperateType, entry.OperateType)
			}
		case FieldOperatorID:
			if entry.OperatorID == "" {
				return ErrEmptyOperatorID
			}
		case FieldOperatedAt:
			if entry.OperatedAt <= 0 {
				return ErrInvalidOperatedAt
			}
		case FieldBusinessID:
			if err := validateBusinessID(entry); err != nil {
				return err
			}
		case FieldOperateData:
			if err := validateOperateData(entry); err != nil {
				return err
			}
		case FieldParent:
			if (entry.ParentType == nil) != (entry.ParentID == nil) {
				return ErrIncompleteParent
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *LogEntryValidator) validateSyncRequest(ctx context.Context, req models.SyncRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLastSyncTime, FieldLogs}
	}

	for _, f := range fields {
		switch f {
		case FieldLastSyncTime:
			if req.LastSyncTime != nil && *req.LastSyncTime < 0 {
				return ErrInvalidLastSyncTime
			}
		case FieldLogs:
			seen := make(map[string]struct{}, len(req.Logs))
			for i, entry := range req.Logs {
				if err := v.validateLogEntry(ctx, entry); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
				if _, dup := seen[entry.ID]; dup {
					return fmt.Errorf("%w: %s", ErrDuplicateLogID, entry.ID)
				}
				seen[entry.ID] = struct{}{}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateBusinessID(entry models.LogEntry) error {
	for _, id := range entry.BusinessID {
		if id == "" {
			return ErrEmptyBusinessID
		}
	}

	if entry.OperateType.IsBatch() {
		return nil
	}
	if len(entry.BusinessID) == 0 {
		return ErrEmptyBusinessID
	}
	if _, ok := entry.BusinessID.Single(); !ok {
		return ErrSingleBusinessID
	}

	return nil
}

func validateOperateData(entry models.LogEntry) error {
	if entry.OperateData == "" {
		switch entry.OperateType {
		case models.OperateTypeDelete, models.OperateTypeBatchDelete:
			return nil
		}
		return ErrEmptyOperateData
	}

	if !json.Valid([]byte(entry.OperateData)) {
		return ErrInvalidOperateData
	}

	return nil
}

func contains[T comparable](values []T, v T) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
