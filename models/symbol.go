package models

import "fmt"

// Symbol kinds.
const (
	SymbolTypeTag     = "tag"
	SymbolTypeProject = "project"
)

// Symbol is a tag or project label attached to items of a book.
type Symbol struct {
	ID         string `json:"id"`
	BookID     string `json:"bookId"`
	Name       string `json:"name"`
	SymbolType string `json:"symbolType"`
	Color      string `json:"color,omitempty"`
	Timestamps
}

func (s *Symbol) TableName() string { return "symbols" }

func (s *Symbol) PrimaryKey() string { return s.ID }

func (s *Symbol) SetPrimaryKey(id string) { s.ID = id }

func (s *Symbol) Columns() []string {
	return []string{"id", "book_id", "name", "symbol_type", "color", "created_at", "updated_at"}
}

func (s *Symbol) Values() []any {
	return []any{s.ID, s.BookID, s.Name, s.SymbolType, s.Color, s.CreatedAt, s.UpdatedAt}
}

func (s *Symbol) Validate() error {
	if s.ID == "" {
		return ErrEmptyPrimaryKey
	}
	if s.BookID == "" {
		return fmt.Errorf("%w: bookId", ErrMissingField)
	}
	if s.SymbolType != SymbolTypeTag && s.SymbolType != SymbolTypeProject {
		return fmt.Errorf("%w: symbolType %q", ErrInvalidFieldEnum, s.SymbolType)
	}
	return nil
}
