package models

import "fmt"

// Book is a ledger book. Entries whose parent is a book are visible to all
// members holding view permission on it.
type Book struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DefaultCurrency string `json:"defaultCurrency,omitempty"`
	DefaultFundID   string `json:"defaultFundId,omitempty"`
	CreatedBy       string `json:"createdBy"`
	Timestamps
}

func (b *Book) TableName() string { return "books" }

func (b *Book) PrimaryKey() string { return b.ID }

func (b *Book) SetPrimaryKey(id string) { b.ID = id }

func (b *Book) Columns() []string {
	return []string{"id", "name", "description", "default_currency", "default_fund_id", "created_by", "created_at", "updated_at"}
}

func (b *Book) Values() []any {
	return []any{b.ID, b.Name, b.Description, b.DefaultCurrency, b.DefaultFundID, b.CreatedBy, b.CreatedAt, b.UpdatedAt}
}

func (b *Book) Validate() error {
	if b.ID == "" {
		return ErrEmptyPrimaryKey
	}
	if b.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	return nil
}
