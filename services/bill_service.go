package services

import (
	"context"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/models"
	"inventory-billing/repositories"

	"github.com/google/uuid"
)

type BillService struct {
	billRepo     repositories.BillRepository
	storeTimeout time.Duration
}

func NewBillService(billRepo repositories.BillRepository, storeTimeout time.Duration) *BillService {
	return &BillService{billRepo: billRepo, storeTimeout: storeTimeout}
}

// Get returns a bill and its items. Bills are only visible to the user who
// created them; anyone else gets NotFound.
func (s *BillService) Get(ctx context.Context, user models.AuthUser, id uuid.UUID) (*models.BillWithItems, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	bill, err := s.billRepo.GetBill(storeCtx, id)
	if err != nil {
		return nil, err
	}
	if bill.CreatedBy != user.ID {
		return nil, apperrors.NotFound("Bill")
	}

	items, err := s.billRepo.ListBillItems(storeCtx, id)
	if err != nil {
		return nil, err
	}

	return &models.BillWithItems{Bill: *bill, Items: items}, nil
}
