package services

import (
	"context"
	"strings"

	"campusnest/commands"
	"campusnest/constants"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/services/notification"
	"campusnest/services/policy"
	"campusnest/types"
	"campusnest/validator"

	"gorm.io/gorm"
)

const reportConflict = "You have already reported this review."

type ReportService struct {
	db       *gorm.DB
	notifier notification.Service
	logger   logger.Logger
}

type ReportServiceOptions struct {
	DB       *gorm.DB
	Notifier notification.Service
	Logger   logger.Logger
}

func NewReportService(opts ReportServiceOptions) *ReportService {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &ReportService{db: opts.DB, notifier: notifier, logger: opts.Logger}
}

// Create files a report against a review. Each user reports a review at
// most once. Moderators connected to the websocket feed are told.
func (s *ReportService) Create(ctx context.Context, actor *types.Actor, reviewID uint, reason string) (*models.Report, error) {
	if !actor.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required.")
	}
	reason = strings.TrimSpace(reason)
	if err := validator.ValidateReportReason(reason); err != nil {
		return nil, err
	}

	report := &models.Report{ReviewID: reviewID, ReporterID: actor.UserID, Reason: reason}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Review{}, reviewID).Error; err != nil {
			return translate(err, "Review", "")
		}
		var existing int64
		if err := tx.Model(&models.Report{}).
			Where("review_id = ? AND reporter_id = ?", reviewID, actor.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errors.Conflict(reportConflict, nil)
		}
		return commands.NewCreateReportCommand(report, tx).Execute(ctx)
	})
	if err != nil {
		return nil, translate(err, "Report", reportConflict)
	}

	msg := notification.NewReportMessageBuilder(report.ID, report.ReviewID, report.ReporterID, report.Reason).Build()
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.Debug("report %d notification not delivered: %v", report.ID, err)
	}
	return report, nil
}

// List returns reports for moderators, optionally filtered by status.
func (s *ReportService) List(ctx context.Context, actor *types.Actor, status constants.ReportStatus, page Page) ([]models.Report, int64, error) {
	if err := policy.CanModerate(actor).Err(); err != nil {
		return nil, 0, err
	}
	page = page.Normalize()

	q := s.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		if !status.IsValid() {
			return nil, 0, errors.FieldError("status", "Select a valid choice.")
		}
		q = q.Where("status = ?", status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Internal("Could not count reports", err)
	}

	var reports []models.Report
	if err := q.Preload("Reporter", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username")
	}).Order("created_at DESC, id DESC").Offset(page.Offset()).Limit(page.Limit).Find(&reports).Error; err != nil {
		return nil, 0, errors.Internal("Could not load reports", err)
	}
	return reports, total, nil
}

// SetStatus moves a pending report to resolved or rejected.
func (s *ReportService) SetStatus(ctx context.Context, actor *types.Actor, id uint, to constants.ReportStatus) (*models.Report, error) {
	if err := policy.CanModerate(actor).Err(); err != nil {
		return nil, err
	}

	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, translate(err, "Report", "")
	}
	if err := validator.ValidateReportTransition(report.Status, to); err != nil {
		return nil, err
	}

	cmd, ok := commands.ForStatus(report.ID, to, s.db)
	if !ok {
		return nil, errors.FieldError("status", "Select a valid choice.")
	}
	if err := cmd.Execute(ctx); err != nil {
		return nil, translate(err, "Report", "")
	}

	if err := s.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, translate(err, "Report", "")
	}
	return &report, nil
}

// CountPending is used by the nightly moderation digest.
func (s *ReportService) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Report{}).Where("status = ?", constants.ReportStatusPending).Count(&n).Error
	return n, err
}

// Notify pushes a message to connected moderators.
func (s *ReportService) Notify(message string) error {
	return s.notifier.SendMessage(message)
}
