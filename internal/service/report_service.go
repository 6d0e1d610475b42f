package service

import (
	"context"
	"strings"

	"rewear/internal/models"
	"rewear/internal/repository"
)

type ReportService struct {
	reportRepo repository.ReportRepository
	itemRepo   repository.ItemRepository
}

type CreateReportInput struct {
	ReporterID  uint
	ItemID      uint
	Reason      string
	Description string
}

type ReviewReportInput struct {
	ReportID uint
	Status   string
}

func NewReportService(reportRepo repository.ReportRepository, itemRepo repository.ItemRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, itemRepo: itemRepo}
}

// CreateReport files a complaint against a listing. When the item's report
// tally reaches the threshold it is pulled from browse automatically pending
// admin review.
func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, models.NewValidationError("Reason is required")
	}

	item, err := s.itemRepo.GetByID(ctx, in.ItemID, in.ReporterID)
	if err != nil {
		return nil, err
	}
	if item.UserID == in.ReporterID {
		return nil, models.NewValidationError("You cannot report your own item")
	}

	report := &models.Report{
		ReporterID:  in.ReporterID,
		ItemID:      in.ItemID,
		Reason:      strings.TrimSpace(in.Reason),
		Description: strings.TrimSpace(in.Description),
		Status:      models.ReportStatusPending,
	}
	newCount, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		return nil, err
	}

	if newCount >= models.FlagThreshold && item.Status != models.ItemStatusFlagged {
		item.Status = models.ItemStatusFlagged
		item.Flagged = true
		item.ReportCount = newCount
		if err := s.itemRepo.Update(ctx, item); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (s *ReportService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	if status != "" && !models.ValidReportStatus(status) {
		return nil, models.NewValidationError("Invalid report status")
	}
	return s.reportRepo.List(ctx, status, limit, offset)
}

// ReviewReport moves a report through the moderation workflow.
func (s *ReportService) ReviewReport(ctx context.Context, in ReviewReportInput) (*models.Report, error) {
	if !models.ValidReportStatus(in.Status) {
		return nil, models.NewValidationError("Invalid report status")
	}
	if err := s.reportRepo.UpdateStatus(ctx, in.ReportID, in.Status); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, in.ReportID)
}
