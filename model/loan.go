package model

import "time"

// Loan periods used when an item is borrowed.
const (
	BookLoanPeriod     = 30 * 24 * time.Hour
	MagazineLoanPeriod = 10 * 24 * time.Hour
	MediaLoanPeriod    = 10 * 24 * time.Hour
)

// Loan records a borrowed catalog item. ReturnDate stays zero until the
// item comes back.
type Loan struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ItemID     string    `json:"item_id"`
	ItemType   string    `json:"item_type"`
	LoanDate   time.Time `json:"loan_date"`
	DueDate    time.Time `json:"due_date"`
	ReturnDate time.Time `json:"return_date"`
	Returned   bool      `json:"returned"`
}

// LoanPeriod returns how long an item of the given type may be kept out.
func LoanPeriod(t ItemType) time.Duration {
	switch t {
	case ItemTypeBook:
		return BookLoanPeriod
	case ItemTypeMagazine:
		return MagazineLoanPeriod
	case ItemTypeMedia:
		return MediaLoanPeriod
	}
	return MediaLoanPeriod
}

// Overdue reports whether the loan is past due at the given instant.
func (l Loan) Overdue(now time.Time) bool {
	return !l.Returned && now.After(l.DueDate)
}
