package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/repository"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// ErrItemUnavailable is returned when a borrow request hits an item that
// is already out.
var ErrItemUnavailable = errors.New("ITEM_UNAVAILABLE", "Item is not available for loan", 409)

// LoanService implements the borrow/return lifecycle: due dates by item
// type, availability bookkeeping and per-user loan history. Updates are
// last-writer-wins field updates; there is no cross-document transaction.
type LoanService struct {
	loans   *repository.Repository[model.Loan]
	catalog *CatalogService
	users   *UserService
	logger  *zap.Logger
	now     func() time.Time
}

// NewLoanService wires the loan repository against the catalog and user
// services.
func NewLoanService(loans *repository.Repository[model.Loan], catalog *CatalogService, users *UserService, logger *zap.Logger) *LoanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanService{
		loans:   loans,
		catalog: catalog,
		users:   users,
		logger:  logger,
		now:     time.Now,
	}
}

// Borrow checks the item out to the user. The item must exist and be
// available; the due date follows the item type's loan period.
func (s *LoanService) Borrow(ctx context.Context, userID string, itemType model.ItemType, itemID string) (model.Loan, error) {
	var zero model.Loan

	if !itemType.Valid() {
		return zero, errors.NewBadRequest("unknown item type")
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		return zero, err
	}

	item, err := s.catalog.GetItem(ctx, itemType, itemID)
	if err != nil {
		return zero, err
	}
	if !itemAvailable(item) {
		return zero, ErrItemUnavailable
	}

	if _, err := s.catalog.SetAvailability(ctx, itemType, itemID, false); err != nil {
		return zero, err
	}

	now := s.now()
	loan := model.Loan{
		UserID:   userID,
		ItemID:   itemID,
		ItemType: string(itemType),
		LoanDate: now,
		DueDate:  now.Add(model.LoanPeriod(itemType)),
	}

	saved, err := s.loans.Save(ctx, loan)
	if err != nil {
		// The item was already flagged unavailable; hand it back so it is
		// not stranded.
		if _, releaseErr := s.catalog.SetAvailability(ctx, itemType, itemID, true); releaseErr != nil {
			s.logger.Error("failed to release item after loan write failure",
				zap.String("item_id", itemID), zap.Error(releaseErr))
		}
		return zero, err
	}

	return saved, nil
}

// Return closes the loan and releases the item.
func (s *LoanService) Return(ctx context.Context, loanID string) (model.Loan, error) {
	var zero model.Loan

	loan, found, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, errors.ErrNotFound
	}
	if loan.Returned {
		return zero, errors.NewBadRequest("loan is already returned")
	}

	updated, err := s.loans.Update(ctx, loanID, store.FieldMap{
		"return_date": s.now(),
		"returned":    true,
	})
	if err != nil {
		return zero, err
	}

	if _, err := s.catalog.SetAvailability(ctx, model.ItemType(loan.ItemType), loan.ItemID, true); err != nil {
		s.logger.Error("failed to release returned item",
			zap.String("item_id", loan.ItemID), zap.Error(err))
	}

	return updated, nil
}

// ListUserLoans returns every loan the user has, open and closed.
func (s *LoanService) ListUserLoans(ctx context.Context, userID string) ([]model.Loan, error) {
	return s.loans.FindByField(ctx, "user_id", userID)
}

// ListOverdue returns loans past their due date at the current instant.
func (s *LoanService) ListOverdue(ctx context.Context) ([]model.Loan, error) {
	all, err := s.loans.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	overdue := make([]model.Loan, 0)
	for _, loan := range all {
		if loan.Overdue(now) {
			overdue = append(overdue, loan)
		}
	}
	return overdue, nil
}

func itemAvailable(item model.Item) bool {
	switch it := item.(type) {
	case model.Book:
		return it.Available
	case model.Magazine:
		return it.Available
	case model.Media:
		return it.Available
	}
	return false
}
