package models

import "fmt"

// Flow kinds shared by categories and items.
const (
	FlowIncome   = "income"
	FlowExpense  = "expense"
	FlowTransfer = "transfer"
)

type Category struct {
	ID       string `json:"id"`
	BookID   string `json:"bookId"`
	ParentID string `json:"parentId,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Sort     int    `json:"sort,omitempty"`
	Timestamps
}

func (c *Category) TableName() string { return "categories" }

func (c *Category) PrimaryKey() string { return c.ID }

func (c *Category) SetPrimaryKey(id string) { c.ID = id }

func (c *Category) Columns() []string {
	return []string{"id", "book_id", "parent_id", "name", "type", "sort", "created_at", "updated_at"}
}

func (c *Category) Values() []any {
	return []any{c.ID, c.BookID, c.ParentID, c.Name, c.Type, c.Sort, c.CreatedAt, c.UpdatedAt}
}

func (c *Category) Validate() error {
	if c.ID == "" {
		return ErrEmptyPrimaryKey
	}
	if c.BookID == "" {
		return fmt.Errorf("%w: bookId", ErrMissingField)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if c.Type != FlowIncome && c.Type != FlowExpense {
		return fmt.Errorf("%w: type %q", ErrInvalidFieldEnum, c.Type)
	}
	return nil
}
