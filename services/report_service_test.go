package services

import (
	"context"
	"strings"
	"testing"

	"campusnest/constants"
	"campusnest/errors"
	"campusnest/services/logger"
	"campusnest/testutil"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCreateNotifiesModerators(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	notifier := &fakeNotifier{}
	svc := NewReportService(ReportServiceOptions{DB: db, Notifier: notifier, Logger: logger.Nop{}})

	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	housing := testutil.Housing(t, db, campus, "The Vue")
	alice := testutil.User(t, db, "alice", campus)
	bob := testutil.User(t, db, "bob", campus)
	review := testutil.Review(t, db, alice, housing, 2)

	report, err := svc.Create(ctx, actorOf(bob), review.ID, "  fake review  ")
	require.NoError(t, err)
	assert.Equal(t, constants.ReportStatusPending, report.Status)
	assert.Equal(t, "fake review", report.Reason)

	require.Len(t, notifier.messages, 1)
	var event map[string]any
	require.NoError(t, json.Unmarshal([]byte(notifier.messages[0]), &event))
	assert.Equal(t, "report.created", event["type"])
	assert.EqualValues(t, review.ID, event["reviewId"])

	_, err = svc.Create(ctx, actorOf(bob), review.ID, "again")
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))
	assert.Len(t, notifier.messages, 1)
}

func TestReportCreateValidation(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewReportService(ReportServiceOptions{DB: db, Logger: logger.Nop{}})

	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	housing := testutil.Housing(t, db, campus, "The Vue")
	alice := testutil.User(t, db, "alice", campus)
	review := testutil.Review(t, db, alice, housing, 2)

	tests := []struct {
		name     string
		reviewID uint
		reason   string
		code     errors.ErrorCode
	}{
		{"blank reason", review.ID, "   ", errors.ErrCodeValidation},
		{"reason too long", review.ID, strings.Repeat("x", constants.MaxReportReason+1), errors.ErrCodeValidation},
		{"missing review", review.ID + 50, "spam", errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, actorOf(alice), tt.reviewID, tt.reason)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}

	_, err := svc.Create(ctx, nil, review.ID, "spam")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))
}

func TestReportModeration(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewReportService(ReportServiceOptions{DB: db, Logger: logger.Nop{}})

	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	housing := testutil.Housing(t, db, campus, "The Vue")
	alice := testutil.User(t, db, "alice", campus)
	bob := testutil.User(t, db, "bob", campus)
	carol := testutil.User(t, db, "carol", campus)
	review := testutil.Review(t, db, alice, housing, 2)

	first, err := svc.Create(ctx, actorOf(bob), review.ID, "spam")
	require.NoError(t, err)
	_, err = svc.Create(ctx, actorOf(carol), review.ID, "rude")
	require.NoError(t, err)

	_, _, err = svc.List(ctx, actorOf(bob), "", Page{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeForbidden))

	reports, total, err := svc.List(ctx, adminActor, constants.ReportStatusPending, Page{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, reports, 1)

	_, _, err = svc.List(ctx, adminActor, "open", Page{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	_, err = svc.SetStatus(ctx, actorOf(bob), first.ID, constants.ReportStatusResolved)
	assert.True(t, errors.HasCode(err, errors.ErrCodeForbidden))

	resolved, err := svc.SetStatus(ctx, adminActor, first.ID, constants.ReportStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, constants.ReportStatusResolved, resolved.Status)

	_, err = svc.SetStatus(ctx, adminActor, first.ID, constants.ReportStatusRejected)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	_, err = svc.SetStatus(ctx, adminActor, first.ID+100, constants.ReportStatusRejected)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	pending, err := svc.CountPending(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)

	reports, total, err = svc.List(ctx, adminActor, constants.ReportStatusResolved, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].Reporter)
	assert.Equal(t, "bob", reports[0].Reporter.Username)
}
