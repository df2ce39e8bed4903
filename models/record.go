// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "errors"

// Record is a row of a business store that can be replicated through the
// change log. Columns and Values are aligned and both start with the primary
// key column "id".
type Record interface {
	TableName() string
	PrimaryKey() string
	SetPrimaryKey(id string)
	Columns() []string
	Values() []any

	// Validate checks the decoded record shape before it reaches the store.
	Validate() error
}

// ImmutableRecord is implemented by records with columns that replicated
// updates must never overwrite.
type ImmutableRecord interface {
	ImmutableColumns() []string
}

// Errors returned by Record.Validate implementations.
var (
	ErrEmptyPrimaryKey  = errors.New("record id is empty")
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFieldEnum = errors.New("field has unsupported value")
)

// Timestamps are client-supplied epoch millisecond audit fields shared by
// every business record.
type Timestamps struct {
	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}
