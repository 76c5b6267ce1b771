package scheduler

import (
	"context"
	"fmt"
	"time"

	appbilling "github.com/milkroute/backend/internal/application/billing"
	appdelivery "github.com/milkroute/backend/internal/application/delivery"
)

// DailyRecordJobName identifies the morning record generation job
const DailyRecordJobName = "daily_record_generation"

// OverdueSweepJobName identifies the nightly invoice overdue sweep
const OverdueSweepJobName = "invoice_overdue_sweep"

// NewDailyRecordJob builds the job that expands every active customer's
// schedule into today's delivery records
func NewDailyRecordJob(cronExpr string, records *appdelivery.RecordService) (*Job, error) {
	return NewJob(DailyRecordJobName, cronExpr, func(ctx context.Context) (string, error) {
		report, err := records.GenerateForDate(ctx, time.Now())
		if err != nil {
			return "", err
		}
		if report.Holiday {
			return fmt.Sprintf("holiday, no records generated for %s", report.Date.Format("2006-01-02")), nil
		}
		detail := fmt.Sprintf("date=%s customers=%d created=%d existing=%d skipped=%d failed=%d",
			report.Date.Format("2006-01-02"), report.Customers,
			report.Created, report.Existing, report.Skipped, report.Failed)
		if report.Failed > 0 {
			return detail, fmt.Errorf("record generation failed for %d of %d customers", report.Failed, report.Customers)
		}
		return detail, nil
	})
}

// NewOverdueSweepJob builds the job that re-derives the status of open
// invoices so those past their due date turn overdue
func NewOverdueSweepJob(cronExpr string, invoices *appbilling.InvoiceService) (*Job, error) {
	return NewJob(OverdueSweepJobName, cronExpr, func(ctx context.Context) (string, error) {
		changed, err := invoices.RefreshOverdue(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("invoices marked overdue: %d", changed), nil
	})
}
