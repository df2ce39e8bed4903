package models

import "fmt"

// Fund is an account (cash, card, wallet) owned by a single user.
type Fund struct {
	ID      string  `json:"id"`
	UserID  string  `json:"userId"`
	Name    string  `json:"name"`
	Type    string  `json:"type,omitempty"`
	Balance float64 `json:"balance"`
	Remark  string  `json:"remark,omitempty"`
	Timestamps
}

func (f *Fund) TableName() string { return "funds" }

func (f *Fund) PrimaryKey() string { return f.ID }

func (f *Fund) SetPrimaryKey(id string) { f.ID = id }

func (f *Fund) Columns() []string {
	return []string{"id", "user_id", "name", "type", "balance", "remark", "created_at", "updated_at"}
}

func (f *Fund) Values() []any {
	return []any{f.ID, f.UserID, f.Name, f.Type, f.Balance, f.Remark, f.CreatedAt, f.UpdatedAt}
}

func (f *Fund) Validate() error {
	if f.ID == "" {
		return ErrEmptyPrimaryKey
	}
	if f.UserID == "" {
		return fmt.Errorf("%w: userId", ErrMissingField)
	}
	if f.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	return nil
}
