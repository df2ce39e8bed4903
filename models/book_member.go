package models

import "fmt"

// BookMember grants a user access to a book. The flags are read by the
// visibility resolver; only CanViewBook affects replication.
type BookMember struct {
	ID            string `json:"id"`
	BookID        string `json:"bookId"`
	UserID        string `json:"userId"`
	CanViewBook   bool   `json:"canViewBook"`
	CanEditBook   bool   `json:"canEditBook"`
	CanDeleteBook bool   `json:"canDeleteBook"`
	CanViewItem   bool   `json:"canViewItem"`
	CanEditItem   bool   `json:"canEditItem"`
	CanDeleteItem bool   `json:"canDeleteItem"`
	Timestamps
}

func (m *BookMember) TableName() string { return "book_members" }

func (m *BookMember) PrimaryKey() string { return m.ID }

func (m *BookMember) SetPrimaryKey(id string) { m.ID = id }

func (m *BookMember) Columns() []string {
	return []string{
		"id", "book_id", "user_id",
		"can_view_book", "can_edit_book", "can_delete_book",
		"can_view_item", "can_edit_item", "can_delete_item",
		"created_at", "updated_at",
	}
}

func (m *BookMember) Values() []any {
	return []any{
		m.ID, m.BookID, m.UserID,
		m.CanViewBook, m.CanEditBook, m.CanDeleteBook,
		m.CanViewItem, m.CanEditItem, m.CanDeleteItem,
		m.CreatedAt, m.UpdatedAt,
	}
}

func (m *BookMember) Validate() error {
	if m.ID == "" {
		return ErrEmptyPrimaryKey
	}
	if m.BookID == "" || m.UserID == "" {
		return fmt.Errorf("%w: bookId and userId", ErrMissingField)
	}
	return nil
}
