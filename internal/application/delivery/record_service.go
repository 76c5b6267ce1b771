package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/partner"
	"github.com/milkroute/backend/internal/domain/shared"
)

// GenerateOutcome classifies what happened for one (customer, date) pair
type GenerateOutcome string

const (
	OutcomeCreated GenerateOutcome = "CREATED"
	OutcomeExists  GenerateOutcome = "EXISTS"
	OutcomeHoliday GenerateOutcome = "HOLIDAY"
	OutcomeSkipped GenerateOutcome = "SKIPPED"
)

// GenerateResult is the outcome of a single-customer generation run
type GenerateResult struct {
	Outcome GenerateOutcome       `json:"outcome"`
	Record  *delivery.DailyRecord `json:"record,omitempty"`
	Reason  string                `json:"reason,omitempty"`
}

// BatchFailure records one customer whose generation failed within a batch
type BatchFailure struct {
	CustomerID     uuid.UUID `json:"customer_id"`
	CustomerNumber int       `json:"customer_number"`
	Error          string    `json:"error"`
}

// BatchReport summarizes a whole-day generation run
type BatchReport struct {
	Date      time.Time      `json:"date"`
	Holiday   bool           `json:"holiday"`
	Created   int            `json:"created"`
	Existing  int            `json:"existing"`
	Skipped   int            `json:"skipped"`
	Failed    int            `json:"failed"`
	Failures  []BatchFailure `json:"failures,omitempty"`
	Customers int            `json:"customers"`
}

// BackfillResult summarizes a join-date-to-yesterday backfill
type BackfillResult struct {
	CustomerID uuid.UUID `json:"customer_id"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Created    int       `json:"created"`
	Message    string    `json:"message"`
}

// RecordService expands standing schedules into daily delivery records,
// folding in accepted quantity adjustments.
type RecordService struct {
	customerRepo   partner.CustomerRepository
	recordRepo     delivery.DailyRecordRepository
	adjustmentRepo delivery.QuantityAdjustmentRepository
	holidayOracle  delivery.HolidayOracle
	logger         *zap.Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(
	customerRepo partner.CustomerRepository,
	recordRepo delivery.DailyRecordRepository,
	adjustmentRepo delivery.QuantityAdjustmentRepository,
	holidayOracle delivery.HolidayOracle,
	logger *zap.Logger,
) *RecordService {
	return &RecordService{
		customerRepo:   customerRepo,
		recordRepo:     recordRepo,
		adjustmentRepo: adjustmentRepo,
		holidayOracle:  holidayOracle,
		logger:         logger,
	}
}

// checkHoliday consults the oracle, treating failures as non-holidays so an
// oracle outage never blocks generation.
func (s *RecordService) checkHoliday(ctx context.Context, date time.Time) delivery.HolidayCheck {
	check, err := s.holidayOracle.IsHoliday(ctx, date)
	if err != nil {
		s.logger.Warn("Holiday oracle failed, continuing as non-holiday",
			zap.Time("date", date),
			zap.Error(err))
		return delivery.HolidayCheck{}
	}
	return check
}

// GenerateForCustomer creates the daily record for one customer on one date.
// Generation is idempotent on (customer, date): an existing record is reported,
// never regenerated.
func (s *RecordService) GenerateForCustomer(ctx context.Context, customerID uuid.UUID, date time.Time) (*GenerateResult, error) {
	date = delivery.NormalizeDate(date)

	if check := s.checkHoliday(ctx, date); check.IsHoliday {
		return &GenerateResult{
			Outcome: OutcomeHoliday,
			Reason:  fmt.Sprintf("No delivery on holiday: %s", check.Name),
		}, nil
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return s.generate(ctx, customer, date)
}

// generate runs the per-customer pipeline after the holiday gate
func (s *RecordService) generate(ctx context.Context, customer *partner.Customer, date time.Time) (*GenerateResult, error) {
	exists, err := s.recordRepo.ExistsByCustomerAndDate(ctx, customer.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing record: %w", err)
	}
	if exists {
		return &GenerateResult{
			Outcome: OutcomeExists,
			Reason:  "Record already exists for this date",
		}, nil
	}

	adjustments, err := s.adjustmentRepo.FindForCustomerAndDate(ctx, customer.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load adjustments: %w", err)
	}

	// A rejected adjustment for the day is a stop signal for the whole
	// customer-day rather than a per-line decision.
	for _, adj := range adjustments {
		if adj.Status == delivery.AdjustmentStatusRejected {
			return &GenerateResult{
				Outcome: OutcomeSkipped,
				Reason:  fmt.Sprintf("Rejected adjustment blocks generation: %s", adj.Reason),
			}, nil
		}
	}

	snapshot := customer.Schedule.Clone()
	for _, adj := range adjustments {
		if !adj.IsAccepted() {
			continue
		}
		line, ok := snapshot.FindLine(adj.Slot, adj.MilkTypeID, adj.SubcategoryID)
		if !ok {
			s.logger.Warn("Accepted adjustment targets a line missing from the schedule",
				zap.String("customer_id", customer.ID.String()),
				zap.Time("date", date),
				zap.String("slot", adj.Slot.String()))
			continue
		}
		line.Quantity = adj.NewQuantity
	}
	snapshot.Recompute()

	record, err := delivery.NewDailyRecord(customer.ID, customer.CustomerNumber, date, delivery.RecordSlots(snapshot.Slots))
	if err != nil {
		return nil, err
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return &GenerateResult{
				Outcome: OutcomeExists,
				Reason:  "Record already exists for this date",
			}, nil
		}
		return nil, fmt.Errorf("failed to create daily record: %w", err)
	}

	s.logger.Info("Daily record created",
		zap.String("customer_id", customer.ID.String()),
		zap.Time("date", date),
		zap.String("total_amount", record.TotalAmount.String()))

	return &GenerateResult{Outcome: OutcomeCreated, Record: record}, nil
}

// GenerateForDate runs generation for every active customer on one date.
// The holiday oracle is consulted once for the batch; per-customer failures
// are collected into the report and never abort the run.
func (s *RecordService) GenerateForDate(ctx context.Context, date time.Time) (*BatchReport, error) {
	date = delivery.NormalizeDate(date)
	report := &BatchReport{Date: date}

	if check := s.checkHoliday(ctx, date); check.IsHoliday {
		report.Holiday = true
		s.logger.Info("Skipping batch generation on holiday",
			zap.Time("date", date),
			zap.String("holiday", check.Name))
		return report, nil
	}

	customers, err := s.customerRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active customers: %w", err)
	}
	report.Customers = len(customers)

	for _, customer := range customers {
		result, err := s.generate(ctx, customer, date)
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, BatchFailure{
				CustomerID:     customer.ID,
				CustomerNumber: customer.CustomerNumber,
				Error:          err.Error(),
			})
			s.logger.Error("Batch generation failed for customer",
				zap.String("customer_id", customer.ID.String()),
				zap.Error(err))
			continue
		}

		switch result.Outcome {
		case OutcomeCreated:
			report.Created++
		case OutcomeExists:
			report.Existing++
		case OutcomeSkipped:
			report.Skipped++
		}
	}

	s.logger.Info("Batch record generation finished",
		zap.Time("date", date),
		zap.Int("created", report.Created),
		zap.Int("existing", report.Existing),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))

	return report, nil
}

// Backfill generates records from the customer's join date through yesterday.
// A customer who joined today or later yields a zero-count success.
func (s *RecordService) Backfill(ctx context.Context, customerID uuid.UUID) (*BackfillResult, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	from := delivery.NormalizeDate(customer.JoinedAt)
	to := delivery.NormalizeDate(time.Now()).AddDate(0, 0, -1)

	result := &BackfillResult{CustomerID: customerID, From: from, To: to}
	if from.After(to) {
		result.Message = "Nothing to backfill yet"
		return result, nil
	}

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if check := s.checkHoliday(ctx, date); check.IsHoliday {
			continue
		}
		res, err := s.generate(ctx, customer, date)
		if err != nil {
			return nil, fmt.Errorf("backfill failed at %s: %w", date.Format("2006-01-02"), err)
		}
		if res.Outcome == OutcomeCreated {
			result.Created++
		}
	}

	result.Message = fmt.Sprintf("Backfilled %d records", result.Created)
	s.logger.Info("Backfill finished",
		zap.String("customer_id", customerID.String()),
		zap.Int("created", result.Created))

	return result, nil
}

// Get returns one daily record by id
func (s *RecordService) Get(ctx context.Context, id uuid.UUID) (*delivery.DailyRecord, error) {
	return s.recordRepo.FindByID(ctx, id)
}

// List returns daily records matching the filter plus the total count
func (s *RecordService) List(ctx context.Context, filter delivery.DailyRecordFilter) ([]delivery.DailyRecord, int64, error) {
	records, err := s.recordRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.recordRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// UpdateSlots is the explicit admin edit of a record's snapshot
func (s *RecordService) UpdateSlots(ctx context.Context, id uuid.UUID, slots delivery.RecordSlots) (*delivery.DailyRecord, error) {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := record.UpdateSlots(slots); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save daily record: %w", err)
	}

	return record, nil
}

// Delete removes a daily record
func (s *RecordService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.recordRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.recordRepo.Delete(ctx, id)
}
