package commands

import (
	"context"

	"campusnest/constants"
	"campusnest/errors"
	"campusnest/models"

	"gorm.io/gorm"
)

// ReportCommand is one moderation step on a report.
type ReportCommand interface {
	Execute(ctx context.Context) error
}

// CreateReportCommand files a new pending report.
type CreateReportCommand struct {
	report *models.Report
	db     *gorm.DB
}

func NewCreateReportCommand(report *models.Report, db *gorm.DB) *CreateReportCommand {
	report.Status = constants.ReportStatusPending
	return &CreateReportCommand{
		report: report,
		db:     db,
	}
}

func (c *CreateReportCommand) Execute(ctx context.Context) error {
	return c.db.WithContext(ctx).Omit("Review", "Reporter").Create(c.report).Error
}

// TransitionReportCommand moves a pending report to a final status. The
// update is conditional on the report still being pending, so two
// moderators racing on the same report cannot both win.
type TransitionReportCommand struct {
	reportID uint
	to       constants.ReportStatus
	db       *gorm.DB
}

func NewResolveReportCommand(reportID uint, db *gorm.DB) *TransitionReportCommand {
	return &TransitionReportCommand{reportID: reportID, to: constants.ReportStatusResolved, db: db}
}

func NewRejectReportCommand(reportID uint, db *gorm.DB) *TransitionReportCommand {
	return &TransitionReportCommand{reportID: reportID, to: constants.ReportStatusRejected, db: db}
}

// ForStatus picks the command for a requested final status.
func ForStatus(reportID uint, status constants.ReportStatus, db *gorm.DB) (ReportCommand, bool) {
	switch status {
	case constants.ReportStatusResolved:
		return NewResolveReportCommand(reportID, db), true
	case constants.ReportStatusRejected:
		return NewRejectReportCommand(reportID, db), true
	}
	return nil, false
}

func (c *TransitionReportCommand) Execute(ctx context.Context) error {
	res := c.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND status = ?", c.reportID, constants.ReportStatusPending).
		Update("status", c.to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Conflict("Report is no longer pending", nil)
	}
	return nil
}
