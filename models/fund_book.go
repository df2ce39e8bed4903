package models

import "fmt"

// FundBook links a fund to a book and states whether the book may book
// money into and out of it.
type FundBook struct {
	ID      string `json:"id"`
	FundID  string `json:"fundId"`
	BookID  string `json:"bookId"`
	FundIn  bool   `json:"fundIn"`
	FundOut bool   `json:"fundOut"`
	Timestamps
}

func (f *FundBook) TableName() string { return "fund_books" }

func (f *FundBook) PrimaryKey() string { return f.ID }

func (f *FundBook) SetPrimaryKey(id string) { f.ID = id }

func (f *FundBook) Columns() []string {
	return []string{"id", "fund_id", "book_id", "fund_in", "fund_out", "created_at", "updated_at"}
}

func (f *FundBook) Values() []any {
	return []any{f.ID, f.FundID, f.BookID, f.FundIn, f.FundOut, f.CreatedAt, f.UpdatedAt}
}

func (f *FundBook) Validate() error {
	if f.ID == "" {
		return ErrEmptyPrimaryKey
	}
	if f.FundID == "" || f.BookID == "" {
		return fmt.Errorf("%w: fundId and bookId", ErrMissingField)
	}
	return nil
}
