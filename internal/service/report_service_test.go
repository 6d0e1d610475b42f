package service

import (
	"context"
	"testing"

	"rewear/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_CreateReport(t *testing.T) {
	itemRepo := noopItemRepo()
	itemRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Item, error) {
		return &models.Item{ID: id, UserID: 2, Status: models.ItemStatusAvailable}, nil
	}
	reportRepo := noopReportRepo()
	svc := NewReportService(reportRepo, itemRepo)

	report, err := svc.CreateReport(context.Background(), CreateReportInput{
		ReporterID: 1, ItemID: 10, Reason: "counterfeit",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, report.Status)
}

func TestReportService_CreateReport_Guards(t *testing.T) {
	itemRepo := noopItemRepo()
	itemRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Item, error) {
		return &models.Item{ID: id, UserID: 1, Status: models.ItemStatusAvailable}, nil
	}
	svc := NewReportService(noopReportRepo(), itemRepo)
	ctx := context.Background()

	// Reason required.
	_, err := svc.CreateReport(ctx, CreateReportInput{ReporterID: 1, ItemID: 10})
	assertAppErrCode(t, err, "VALIDATION_ERROR")

	// Cannot report your own item.
	_, err = svc.CreateReport(ctx, CreateReportInput{ReporterID: 1, ItemID: 10, Reason: "spam"})
	assertAppErrCode(t, err, "VALIDATION_ERROR")
}

func TestReportService_CreateReport_FlagsAtThreshold(t *testing.T) {
	item := &models.Item{ID: 10, UserID: 2, Status: models.ItemStatusAvailable}
	itemRepo := noopItemRepo()
	itemRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Item, error) {
		return item, nil
	}
	var flagged *models.Item
	itemRepo.updateFn = func(_ context.Context, it *models.Item) error {
		flagged = it
		return nil
	}

	reportRepo := noopReportRepo()
	reportRepo.createFn = func(_ context.Context, _ *models.Report) (int, error) {
		return models.FlagThreshold - 1, nil
	}
	svc := NewReportService(reportRepo, itemRepo)
	ctx := context.Background()

	_, err := svc.CreateReport(ctx, CreateReportInput{ReporterID: 1, ItemID: 10, Reason: "spam"})
	require.NoError(t, err)
	assert.Nil(t, flagged) // below threshold, no status change

	reportRepo.createFn = func(_ context.Context, _ *models.Report) (int, error) {
		return models.FlagThreshold, nil
	}
	_, err = svc.CreateReport(ctx, CreateReportInput{ReporterID: 3, ItemID: 10, Reason: "spam"})
	require.NoError(t, err)
	require.NotNil(t, flagged)
	assert.Equal(t, models.ItemStatusFlagged, flagged.Status)
	assert.True(t, flagged.Flagged)
}

func TestReportService_ReviewReport(t *testing.T) {
	reportRepo := noopReportRepo()
	var setStatus string
	reportRepo.updateStatusFn = func(_ context.Context, _ uint, status string) error {
		setStatus = status
		return nil
	}
	reportRepo.getByIDFn = func(_ context.Context, id uint) (*models.Report, error) {
		return &models.Report{ID: id, Status: setStatus}, nil
	}
	svc := NewReportService(reportRepo, noopItemRepo())
	ctx := context.Background()

	report, err := svc.ReviewReport(ctx, ReviewReportInput{ReportID: 1, Status: models.ReportStatusResolved})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, report.Status)

	_, err = svc.ReviewReport(ctx, ReviewReportInput{ReportID: 1, Status: "shredded"})
	assertAppErrCode(t, err, "VALIDATION_ERROR")
}
