package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/partner"
	"github.com/milkroute/backend/internal/domain/shared"
)

// AdjustmentService manages the quantity adjustment ledger: staged one-off
// overrides that the record generator applies on their target date.
type AdjustmentService struct {
	customerRepo   partner.CustomerRepository
	adjustmentRepo delivery.QuantityAdjustmentRepository
	logger         *zap.Logger
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(
	customerRepo partner.CustomerRepository,
	adjustmentRepo delivery.QuantityAdjustmentRepository,
	logger *zap.Logger,
) *AdjustmentService {
	return &AdjustmentService{
		customerRepo:   customerRepo,
		adjustmentRepo: adjustmentRepo,
		logger:         logger,
	}
}

// UpsertAdjustmentInput carries the full composite key plus the requested change
type UpsertAdjustmentInput struct {
	CustomerID    uuid.UUID
	Date          time.Time
	Slot          delivery.TimeSlot
	MilkTypeID    uuid.UUID
	SubcategoryID uuid.UUID
	NewQuantity   decimal.Decimal
	Reason        string
}

func (in UpsertAdjustmentInput) validate() error {
	if in.CustomerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID is required")
	}
	if in.Date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Target date is required")
	}
	if !in.Slot.IsValid() {
		return shared.NewDomainError("INVALID_SLOT", "Delivery slot must be MORNING or EVENING")
	}
	if in.MilkTypeID == uuid.Nil {
		return shared.NewDomainError("INVALID_MILK_TYPE", "Milk type ID is required")
	}
	if in.SubcategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUBCATEGORY", "Subcategory ID is required")
	}
	if in.Reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reason is required")
	}
	return nil
}

// Upsert stages a quantity change for one schedule line on one date. A repeat
// request for the same composite key overwrites the existing row in place and
// resets it to pending; the customer's persisted schedule is never touched.
func (s *AdjustmentService) Upsert(ctx context.Context, input UpsertAdjustmentInput) (*delivery.QuantityAdjustment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	oldQuantity := decimal.Zero
	if line, ok := customer.Schedule.FindLine(input.Slot, input.MilkTypeID, input.SubcategoryID); ok {
		oldQuantity = line.Quantity
	}

	key := delivery.AdjustmentKey{
		CustomerID:    input.CustomerID,
		Date:          delivery.NormalizeDate(input.Date),
		Slot:          input.Slot,
		MilkTypeID:    input.MilkTypeID,
		SubcategoryID: input.SubcategoryID,
	}

	existing, err := s.adjustmentRepo.FindActiveByKey(ctx, key)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up adjustment: %w", err)
	}

	if existing != nil {
		if err := existing.Revise(oldQuantity, input.NewQuantity, input.Reason); err != nil {
			return nil, err
		}
		if err := s.adjustmentRepo.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to save adjustment: %w", err)
		}
		s.logger.Info("Adjustment revised",
			zap.String("adjustment_id", existing.ID.String()),
			zap.String("key", key.String()))
		return existing, nil
	}

	adjustment, err := delivery.NewQuantityAdjustment(
		input.CustomerID, customer.CustomerNumber,
		input.Date, input.Slot,
		input.MilkTypeID, input.SubcategoryID,
		oldQuantity, input.NewQuantity, input.Reason,
	)
	if err != nil {
		return nil, err
	}

	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("failed to save adjustment: %w", err)
	}

	s.logger.Info("Adjustment created",
		zap.String("adjustment_id", adjustment.ID.String()),
		zap.String("key", key.String()))

	return adjustment, nil
}

// Accept approves a pending adjustment. When no explicit last-accepted
// quantity is supplied, the current schedule line quantity is recorded as the
// rollback value.
func (s *AdjustmentService) Accept(ctx context.Context, id uuid.UUID, lastAccepted *decimal.Decimal) (*delivery.QuantityAdjustment, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rollback := decimal.Zero
	if lastAccepted != nil {
		rollback = *lastAccepted
	} else {
		customer, err := s.customerRepo.FindByID(ctx, adjustment.CustomerID)
		if err != nil {
			return nil, err
		}
		if line, ok := customer.Schedule.FindLine(adjustment.Slot, adjustment.MilkTypeID, adjustment.SubcategoryID); ok {
			rollback = line.Quantity
		}
	}

	if err := adjustment.Accept(rollback); err != nil {
		return nil, err
	}

	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("failed to save adjustment: %w", err)
	}

	return adjustment, nil
}

// Reject declines an adjustment with the supplied reason
func (s *AdjustmentService) Reject(ctx context.Context, id uuid.UUID, reason string) (*delivery.QuantityAdjustment, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := adjustment.Reject(reason); err != nil {
		return nil, err
	}

	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("failed to save adjustment: %w", err)
	}

	return adjustment, nil
}

// Delete removes an adjustment from the ledger
func (s *AdjustmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.adjustmentRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.adjustmentRepo.Delete(ctx, id)
}

// Get returns one adjustment by id
func (s *AdjustmentService) Get(ctx context.Context, id uuid.UUID) (*delivery.QuantityAdjustment, error) {
	return s.adjustmentRepo.FindByID(ctx, id)
}

// AdjustmentListItem is one adjustment in a listing, carrying the quantity a
// delivery view would display for it alongside the raw ledger fields.
type AdjustmentListItem struct {
	delivery.QuantityAdjustment
	DisplayQuantity decimal.Decimal `json:"display_quantity"`
}

// List returns adjustments matching the filter plus the total count
func (s *AdjustmentService) List(ctx context.Context, filter delivery.AdjustmentFilter) ([]AdjustmentListItem, int64, error) {
	adjustments, err := s.adjustmentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.adjustmentRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]AdjustmentListItem, len(adjustments))
	for i := range adjustments {
		items[i] = AdjustmentListItem{
			QuantityAdjustment: adjustments[i],
			DisplayQuantity:    adjustments[i].DisplayQuantity(),
		}
	}
	return items, total, nil
}

// ScheduleLineView is one line of the projected schedule for a date
type ScheduleLineView struct {
	Slot              delivery.TimeSlot `json:"slot"`
	MilkTypeID        uuid.UUID         `json:"milk_type_id"`
	SubcategoryID     uuid.UUID         `json:"subcategory_id"`
	DefaultQuantity   decimal.Decimal   `json:"default_quantity"`
	EffectiveQuantity decimal.Decimal   `json:"effective_quantity"`
	UnitPrice         decimal.Decimal   `json:"unit_price"`
	Adjusted          bool              `json:"adjusted"`
	AdjustmentStatus  string            `json:"adjustment_status,omitempty"`
}

// ScheduleView projects a customer's schedule onto one date with any
// adjustments for that date overriding the displayed quantities.
func (s *AdjustmentService) ScheduleView(ctx context.Context, customerID uuid.UUID, date time.Time) ([]ScheduleLineView, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	date = delivery.NormalizeDate(date)
	adjustments, err := s.adjustmentRepo.FindForCustomerAndDate(ctx, customerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load adjustments: %w", err)
	}

	byKey := make(map[delivery.AdjustmentKey]*delivery.QuantityAdjustment, len(adjustments))
	for i := range adjustments {
		byKey[adjustments[i].Key()] = &adjustments[i]
	}

	var views []ScheduleLineView
	for _, slot := range customer.Schedule.Slots {
		for _, item := range slot.Items {
			view := ScheduleLineView{
				Slot:              slot.Slot,
				MilkTypeID:        item.MilkTypeID,
				SubcategoryID:     item.SubcategoryID,
				DefaultQuantity:   item.Quantity,
				EffectiveQuantity: item.Quantity,
				UnitPrice:         item.UnitPrice,
			}
			key := delivery.AdjustmentKey{
				CustomerID:    customerID,
				Date:          date,
				Slot:          slot.Slot,
				MilkTypeID:    item.MilkTypeID,
				SubcategoryID: item.SubcategoryID,
			}
			if adj, ok := byKey[key]; ok {
				view.EffectiveQuantity = adj.DisplayQuantity()
				view.Adjusted = true
				view.AdjustmentStatus = adj.Status.String()
			}
			views = append(views, view)
		}
	}

	return views, nil
}
