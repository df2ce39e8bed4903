package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyLogID          = errors.New("log entry id is required")
	ErrInvalidBusinessType = errors.New("invalid business type")
	ErrInvalidOperateType  = errors.New("invalid operate type")
	ErrEmptyOperatorID     = errors.New("operator id is required")
	ErrInvalidOperatedAt   = errors.New("operatedAt must be a positive epoch millisecond")
	ErrEmptyBusinessID     = errors.New("businessId is required")
	ErrSingleBusinessID    = errors.New("businessId must hold exactly one id for single-record operations")
	ErrEmptyOperateData    = errors.New("operateData is required")
	ErrInvalidOperateData  = errors.New("operateData is not valid JSON")
	ErrIncompleteParent    = errors.New("parentType and parentId must be set together")
	ErrInvalidLastSyncTime = errors.New("lastSyncTime cannot be negative")
	ErrDuplicateLogID      = errors.New("duplicate log entry id")
)
