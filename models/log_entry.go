// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BusinessType identifies the business store a [LogEntry] targets.
type BusinessType string

const (
	BusinessTypeBook       BusinessType = "book"
	BusinessTypeCategory   BusinessType = "category"
	BusinessTypeItem       BusinessType = "item"
	BusinessTypeShop       BusinessType = "shop"
	BusinessTypeSymbol     BusinessType = "symbol"
	BusinessTypeFund       BusinessType = "fund"
	BusinessTypeFundBook   BusinessType = "fundBook"
	BusinessTypeBookMember BusinessType = "bookMember"
	BusinessTypeUser       BusinessType = "user"
	BusinessTypeAttachment BusinessType = "attachment"
)

// OperateType is the kind of mutation a [LogEntry] carries.
type OperateType string

const (
	OperateTypeCreate      OperateType = "create"
	OperateTypeUpdate      OperateType = "update"
	OperateTypeDelete      OperateType = "delete"
	OperateTypeBatchCreate OperateType = "batchCreate"
	OperateTypeBatchUpdate OperateType = "batchUpdate"
	OperateTypeBatchDelete OperateType = "batchDelete"
)

// IsBatch reports whether the operation targets a list of records.
func (o OperateType) IsBatch() bool {
	switch o {
	case OperateTypeBatchCreate, OperateTypeBatchUpdate, OperateTypeBatchDelete:
		return true
	}
	return false
}

// ParentTypeBook is the parent type used to scope entries to a ledger book.
const ParentTypeBook = "book"

// LogEntry is one client-originated (or server-synthesized) mutation. It is the
// unit of replication between devices and users.
//
// Once persisted, only SyncState, SyncTime and SyncError may change, and they
// are written exactly once.
type LogEntry struct {
	ID           string       `json:"id"`
	BusinessType BusinessType `json:"businessType"`
	OperateType  OperateType  `json:"operateType"`
	ParentType   *string      `json:"parentType,omitempty"`
	ParentID     *string      `json:"parentId,omitempty"`
	OperatorID   string       `json:"operatorId"`

	// OperatedAt is the client logical timestamp in epoch milliseconds. It
	// establishes replay order and is unrelated to SyncTime.
	OperatedAt int64 `json:"operatedAt"`

	BusinessID  BusinessIDs `json:"businessId"`
	OperateData string      `json:"operateData"`

	SyncState SyncState `json:"syncState"`
	SyncTime  *int64    `json:"syncTime,omitempty"`
	SyncError *string   `json:"syncError,omitempty"`
}

// BelongsTo reports whether userID performed the operation.
func (l *LogEntry) BelongsTo(userID string) bool {
	return l.OperatorID == userID
}

// LogResult is the per-entry outcome reported back to the submitting device.
type LogResult struct {
	LogID     string    `json:"logId"`
	SyncState SyncState `json:"syncState"`
	SyncError *string   `json:"syncError,omitempty"`
}

// ResultOf builds the [LogResult] for an already processed entry.
func ResultOf(entry LogEntry) LogResult {
	return LogResult{
		LogID:     entry.ID,
		SyncState: entry.SyncState,
		SyncError: entry.SyncError,
	}
}

// BusinessIDs is the primary key of the affected record, or the list of keys
// for batch operations. On the wire it is either a JSON string or a JSON array
// of strings; a single id is always encoded back as a plain string.
type BusinessIDs []string

// NewBusinessID wraps a single primary key.
func NewBusinessID(id string) BusinessIDs {
	return BusinessIDs{id}
}

// Single returns the only id held. It returns false when the value is empty
// or holds several ids.
func (b BusinessIDs) Single() (string, bool) {
	if len(b) != 1 {
		return "", false
	}
	return b[0], true
}

// Key is the canonical single-column representation stored in log_entries:
// the plain id, or a JSON array for lists.
func (b BusinessIDs) Key() string {
	if id, ok := b.Single(); ok {
		return id
	}
	if len(b) == 0 {
		return ""
	}
	encoded, _ := json.Marshal([]string(b))
	return string(encoded)
}

// ParseBusinessIDs is the inverse of [BusinessIDs.Key].
func ParseBusinessIDs(key string) BusinessIDs {
	if key == "" {
		return nil
	}
	if strings.HasPrefix(key, "[") {
		var ids []string
		if err := json.Unmarshal([]byte(key), &ids); err == nil {
			return ids
		}
	}
	return BusinessIDs{key}
}

func (b BusinessIDs) MarshalJSON() ([]byte, error) {
	if id, ok := b.Single(); ok {
		return json.Marshal(id)
	}
	if b == nil {
		return []byte("null"), nil
	}
	return json.Marshal([]string(b))
}

func (b *BusinessIDs) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*b = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*b = BusinessIDs{id}
		return nil
	case len(data) > 0 && data[0] == '[':
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}
		*b = ids
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidBusinessID, string(data))
}

// ErrInvalidBusinessID is returned when businessId is neither a string nor a
// list of strings.
var ErrInvalidBusinessID = errors.New("businessId must be a string or an array of strings")
