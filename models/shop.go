package models

import "fmt"

type Shop struct {
	ID          string `json:"id"`
	BookID      string `json:"bookId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Timestamps
}

func (s *Shop) TableName() string { return "shops" }

func (s *Shop) PrimaryKey() string { return s.ID }

func (s *Shop) SetPrimaryKey(id string) { s.ID = id }

func (s *Shop) Columns() []string {
	return []string{"id", "book_id", "name", "description", "created_at", "updated_at"}
}

func (s *Shop) Values() []any {
	return []any{s.ID, s.BookID, s.Name, s.Description, s.CreatedAt, s.UpdatedAt}
}

func (s *Shop) Validate() error {
	if s.ID == "" {
		return ErrEmptyPrimaryKey
	}
	if s.BookID == "" {
		return fmt.Errorf("%w: bookId", ErrMissingField)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	return nil
}
