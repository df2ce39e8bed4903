package models

import "fmt"

// Item is a single ledger entry (income, expense or transfer) inside a book.
type Item struct {
	ID          string  `json:"id"`
	BookID      string  `json:"bookId"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	FundID      string  `json:"fundId,omitempty"`
	CategoryID  string  `json:"categoryId,omitempty"`
	ShopID      string  `json:"shopId,omitempty"`
	Description string  `json:"description,omitempty"`
	OccurredAt  int64   `json:"occurredAt"`
	CreatedBy   string  `json:"createdBy"`
	Timestamps
}

func (i *Item) TableName() string { return "items" }

func (i *Item) PrimaryKey() string { return i.ID }

func (i *Item) SetPrimaryKey(id string) { i.ID = id }

func (i *Item) Columns() []string {
	return []string{"id", "book_id", "type", "amount", "fund_id", "category_id", "shop_id", "description", "occurred_at", "created_by", "created_at", "updated_at"}
}

func (i *Item) Values() []any {
	return []any{i.ID, i.BookID, i.Type, i.Amount, i.FundID, i.CategoryID, i.ShopID, i.Description, i.OccurredAt, i.CreatedBy, i.CreatedAt, i.UpdatedAt}
}

func (i *Item) Validate() error {
	if i.ID == "" {
		return ErrEmptyPrimaryKey
	}
	if i.BookID == "" {
		return fmt.Errorf("%w: bookId", ErrMissingField)
	}
	switch i.Type {
	case FlowIncome, FlowExpense, FlowTransfer:
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidFieldEnum, i.Type)
	}
	return nil
}
