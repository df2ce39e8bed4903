// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/internal/store"
	"github.com/MKhiriev/ledger-sync/models"
)

// operationApplier dispatches entries through a registry keyed by business
// type. The registry is fixed at construction.
type operationApplier struct {
	handlers map[models.BusinessType]BusinessHandler
}

// NewOperationApplier builds an applier over handlers. Attachments are never
// replicated through the log, so a handler registered for them is ignored.
func NewOperationApplier(handlers map[models.BusinessType]BusinessHandler) OperationApplier {
	registry := make(map[models.BusinessType]BusinessHandler, len(handlers))
	for businessType, handler := range handlers {
		if businessType == models.BusinessTypeAttachment || handler == nil {
			continue
		}
		registry[businessType] = handler
	}

	return &operationApplier{handlers: registry}
}

// NewStoreApplier registers one handler per business record store.
func NewStoreApplier(storages *store.Storages) OperationApplier {
	return NewOperationApplier(map[models.BusinessType]BusinessHandler{
		models.BusinessTypeBook:       NewRecordHandler(storages.Books, func() *models.Book { return new(models.Book) }),
		models.BusinessTypeCategory:   NewRecordHandler(storages.Categories, func() *models.Category { return new(models.Category) }),
		models.BusinessTypeItem:       NewRecordHandler(storages.Items, func() *models.Item { return new(models.Item) }),
		models.BusinessTypeShop:       NewRecordHandler(storages.Shops, func() *models.Shop { return new(models.Shop) }),
		models.BusinessTypeSymbol:     NewRecordHandler(storages.Symbols, func() *models.Symbol { return new(models.Symbol) }),
		models.BusinessTypeFund:       NewRecordHandler(storages.Funds, func() *models.Fund { return new(models.Fund) }),
		models.BusinessTypeFundBook:   NewRecordHandler(storages.FundBooks, func() *models.FundBook { return new(models.FundBook) }),
		models.BusinessTypeBookMember: NewRecordHandler(storages.BookMembers, func() *models.BookMember { return new(models.BookMember) }),
		models.BusinessTypeUser:       NewUserHandler(storages.UserRecords),
	})
}

func (a *operationApplier) Apply(ctx context.Context, q store.Querier, entry models.LogEntry) error {
	handler, ok := a.handlers[entry.BusinessType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedBusinessType, entry.BusinessType)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "operationApplier.Apply").
		Str("log_id", entry.ID).
		Str("business_type", string(entry.BusinessType)).
		Str("operate_type", string(entry.OperateType)).
		Msg("applying log entry")

	switch entry.OperateType {
	case models.OperateTypeCreate:
		return handler.ApplyCreate(ctx, q, entry)
	case models.OperateTypeUpdate:
		return handler.ApplyUpdate(ctx, q, entry)
	case models.OperateTypeDelete:
		return handler.ApplyDelete(ctx, q, entry)
	case models.OperateTypeBatchCreate, models.OperateTypeBatchUpdate, models.OperateTypeBatchDelete:
		return handler.ApplyBatch(ctx, q, entry)
	}

	return fmt.Errorf("%w: %q", ErrUnsupportedOperateType, entry.OperateType)
}

// recordHandler decodes operateData into T with a strict schema and writes it
// through a [store.RecordStore].
type recordHandler[T models.Record] struct {
	store     store.RecordStore[T]
	newRecord func() T
}

// NewRecordHandler adapts a record store to [BusinessHandler].
func NewRecordHandler[T models.Record](recordStore store.RecordStore[T], newRecord func() T) BusinessHandler {
	return &recordHandler[T]{store: recordStore, newRecord: newRecord}
}

func (h *recordHandler[T]) ApplyCreate(ctx context.Context, q store.Querier, entry models.LogEntry) error {
	record, err := h.decodeOne(entry.OperateData)
	if err != nil {
		return err
	}

	if id, ok := entry.BusinessID.Single(); ok {
		switch record.PrimaryKey() {
		case "":
			record.SetPrimaryKey(id)
		case id:
		default:
			return fmt.Errorf("%w: record id %q does not match businessId %q", ErrMalformedPayload, record.PrimaryKey(), id)
		}
	}

	if err = validate(record); err != nil {
		return err
	}

	return h.store.Insert(ctx, q, record)
}

// ApplyUpdate overwrites the row named by businessId with the decoded
// snapshot. Whichever update is applied last wins.
func (h *recordHandler[T]) ApplyUpdate(ctx context.Context, q store.Querier, entry models.LogEntry) error {
	id, ok := entry.BusinessID.Single()
	if !ok || id == "" {
		return fmt.Errorf("%w: update needs a single businessId", ErrMalformedPayload)
	}

	record, err := h.decodeOne(entry.OperateData)
	if err != nil {
		return err
	}
	record.SetPrimaryKey(id)

	if err = validate(record); err != nil {
		return err
	}

	return h.store.Update(ctx, q, record)
}

func (h *recordHandler[T]) ApplyDelete(ctx context.Context, q store.Querier, entry models.LogEntry) error {
	id, ok := entry.BusinessID.Single()
	if !ok || id == "" {
		return fmt.Errorf("%w: delete needs a single businessId", ErrMalformedPayload)
	}

	return h.store.Delete(ctx, q, id)
}

func (h *recordHandler[T]) ApplyBatch(ctx context.Context, q store.Querier, entry models.LogEntry) error {
	switch entry.OperateType {
	case models.OperateTypeBatchCreate, models.OperateTypeBatchUpdate:
		records, err := h.decodeList(entry.OperateData)
		if err != nil {
			return err
		}
		for _, record := range records {
			if err = validate(record); err != nil {
				return err
			}
		}

		if entry.OperateType == models.OperateTypeBatchCreate {
			return h.store.Insert(ctx, q, records...)
		}
		return h.store.Update(ctx, q, records...)

	case models.OperateTypeBatchDelete:
		ids, err := batchDeleteIDs(entry)
		if err != nil {
			return err
		}
		return h.store.Delete(ctx, q, ids...)
	}

	return fmt.Errorf("%w: %q is not a batch operation", ErrUnsupportedOperateType, entry.OperateType)
}

func (h *recordHandler[T]) decodeOne(data string) (T, error) {
	record := h.newRecord()
	if err := decodeStrict(data, record); err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

func (h *recordHandler[T]) decodeList(data string) ([]T, error) {
	var raw []json.RawMessage
	if err := decodeStrict(data, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty record list", ErrMalformedPayload)
	}

	records := make([]T, 0, len(raw))
	for i, item := range raw {
		record := h.newRecord()
		if err := decodeStrict(string(item), record); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// userHandler applies replicated profile changes. Accounts are created by
// registration only, so create entries arriving through the log are refused.
type userHandler struct {
	BusinessHandler
}

// NewUserHandler wraps the user record store. Updates keep the credential
// columns listed by [models.User.ImmutableColumns].
func NewUserHandler(records store.RecordStore[*models.User]) BusinessHandler {
	return &userHandler{
		BusinessHandler: NewRecordHandler(records, func() *models.User { return new(models.User) }),
	}
}

func (h *userHandler) ApplyCreate(context.Context, store.Querier, models.LogEntry) error {
	return ErrUserCreateNotReplicated
}

func (h *userHandler) ApplyBatch(ctx context.Context, q store.Querier, entry models.LogEntry) error {
	if entry.OperateType == models.OperateTypeBatchCreate {
		return ErrUserCreateNotReplicated
	}
	return h.BusinessHandler.ApplyBatch(ctx, q, entry)
}

// batchDeleteIDs reads the ids to delete from operateData, a JSON array of
// ids, falling back to the businessId list when operateData is empty.
func batchDeleteIDs(entry models.LogEntry) ([]string, error) {
	var ids []string
	if strings.TrimSpace(entry.OperateData) == "" {
		ids = entry.BusinessID
	} else if err := decodeStrict(entry.OperateData, &ids); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no ids to delete", ErrMalformedPayload)
	}
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: empty id in batch delete", ErrMalformedPayload)
		}
	}

	return ids, nil
}

// decodeStrict rejects unknown fields and trailing data.
func decodeStrict(data string, target any) error {
	if strings.TrimSpace(data) == "" {
		return fmt.Errorf("%w: empty operateData", ErrMalformedPayload)
	}

	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after the payload", ErrMalformedPayload)
	}

	return nil
}

func validate(record models.Record) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return nil
}
