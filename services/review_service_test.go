package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"campusnest/constants"
	"campusnest/dto"
	"campusnest/errors"
	"campusnest/models"
	"campusnest/services/logger"
	"campusnest/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fullReview(score int, tags ...string) dto.ReviewRequest {
	if len(tags) == 0 {
		tags = []string{"affordable", "thin_walls", "free_parking"}
	}
	return dto.ReviewRequest{
		Cost:       intPtr(score),
		Safety:     intPtr(score),
		Management: intPtr(score),
		Noise:      intPtr(score),
		Tag1:       strPtr(tags[0]),
		Tag2:       strPtr(tags[1]),
		Tag3:       strPtr(tags[2]),
		Comment:    strPtr("decent place"),
	}
}

type reviewFixture struct {
	db      *gorm.DB
	svc     *ReviewService
	storage *fakeStorage
	campus  *models.Campus
	housing *models.Housing
	alice   *models.User
	bob     *models.User
}

func newReviewFixture(t *testing.T) *reviewFixture {
	db := testutil.NewDB(t)
	storage := &fakeStorage{}
	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	return &reviewFixture{
		db:      db,
		svc:     NewReviewService(ReviewServiceOptions{DB: db, Ratings: newRatings(db), Storage: storage, Logger: logger.Nop{}}),
		storage: storage,
		campus:  campus,
		housing: testutil.Housing(t, db, campus, "The Vue"),
		alice:   testutil.User(t, db, "alice", campus),
		bob:     testutil.User(t, db, "bob", campus),
	}
}

func TestReviewCreate(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review, err := f.svc.Create(ctx, actorOf(f.alice), f.housing.ID, fullReview(4))
	require.NoError(t, err)
	assert.Equal(t, f.housing.ID, review.HousingID)
	assert.Equal(t, f.alice.ID, review.UserID)
	require.NotNil(t, review.User)
	assert.Equal(t, "alice", review.User.Username)
	assert.Equal(t, "decent place", review.Comment)
}

func TestReviewCreateRequiresAllRatings(t *testing.T) {
	f := newReviewFixture(t)

	req := fullReview(4)
	req.Noise = nil
	req.Tag3 = nil
	_, err := f.svc.Create(context.Background(), actorOf(f.alice), f.housing.ID, req)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "noise")
	assert.Contains(t, appErr.Fields, "tag3")
}

func TestReviewCreateRejectsOutOfRangeAndDuplicateTags(t *testing.T) {
	f := newReviewFixture(t)

	req := fullReview(6, "affordable", "affordable", "free_parking")
	_, err := f.svc.Create(context.Background(), actorOf(f.alice), f.housing.ID, req)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "cost")
	assert.Contains(t, appErr.Fields, "tag2")

	var n int64
	require.NoError(t, f.db.Model(&models.Review{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestReviewCreateMissingHousing(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.Create(context.Background(), actorOf(f.alice), f.housing.ID+100, fullReview(3))
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestReviewCreateOncePerHousing(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, actorOf(f.alice), f.housing.ID, fullReview(4))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, actorOf(f.alice), f.housing.ID, fullReview(2))
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))

	_, err = f.svc.Create(ctx, actorOf(f.bob), f.housing.ID, fullReview(2))
	assert.NoError(t, err)
}

func TestReviewCreateAnonymous(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.Create(context.Background(), nil, f.housing.ID, fullReview(4))
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))
}

func TestReviewUpdate(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	review := testutil.Review(t, f.db, f.alice, f.housing, 3)

	updated, err := f.svc.Update(ctx, actorOf(f.alice), review.ID, dto.ReviewRequest{
		Cost:    intPtr(5),
		Comment: strPtr("got better"),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Cost)
	assert.Equal(t, 3, updated.Safety)
	assert.Equal(t, "got better", updated.Comment)
}

func TestReviewUpdateByOtherUserIsForbidden(t *testing.T) {
	f := newReviewFixture(t)
	review := testutil.Review(t, f.db, f.alice, f.housing, 3)

	_, err := f.svc.Update(context.Background(), actorOf(f.bob), review.ID, dto.ReviewRequest{Cost: intPtr(1)})

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCodeForbidden, appErr.Code)
	assert.NotEmpty(t, appErr.Message)

	var stored models.Review
	require.NoError(t, f.db.First(&stored, review.ID).Error)
	assert.Equal(t, 3, stored.Cost)
}

func TestReviewUpdateValidates(t *testing.T) {
	f := newReviewFixture(t)
	review := testutil.Review(t, f.db, f.alice, f.housing, 3)

	_, err := f.svc.Update(context.Background(), actorOf(f.alice), review.ID, dto.ReviewRequest{Tag2: strPtr("affordable")})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestReviewDeleteCascades(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	review := testutil.Review(t, f.db, f.alice, f.housing, 3)

	require.NoError(t, f.db.Create(&models.Media{ReviewID: review.ID, URL: "https://cdn.test/a", PublicID: "reviews/a"}).Error)
	require.NoError(t, f.db.Create(&models.Report{ReviewID: review.ID, ReporterID: f.bob.ID, Reason: "spam", Status: constants.ReportStatusPending}).Error)

	err := f.svc.Delete(ctx, actorOf(f.bob), review.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeForbidden))

	require.NoError(t, f.svc.Delete(ctx, actorOf(f.alice), review.ID))

	for _, model := range []any{&models.Review{}, &models.Media{}, &models.Report{}} {
		var n int64
		require.NoError(t, f.db.Model(model).Count(&n).Error)
		assert.Zero(t, n)
	}
	assert.Equal(t, []string{"reviews/a"}, f.storage.deleted)
}

func TestReviewListNewestFirstWithMedia(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	first := testutil.Review(t, f.db, f.alice, f.housing, 3)
	second := testutil.Review(t, f.db, f.bob, f.housing, 4)
	require.NoError(t, f.db.Model(first).Update("created_at", first.CreatedAt.Add(-time.Hour)).Error)
	require.NoError(t, f.db.Create(&models.Media{ReviewID: second.ID, URL: "https://cdn.test/b"}).Error)

	reviews, err := f.svc.ListByHousing(ctx, f.housing.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID)
	assert.Equal(t, first.ID, reviews[1].ID)

	resp := dto.ToReviewResponse(&reviews[0])
	assert.Equal(t, []string{"https://cdn.test/b"}, resp.MediaURLs)
	assert.Equal(t, "bob", resp.User.Username)
	assert.True(t, strings.HasPrefix(resp.MediaURLs[0], "https://"))

	_, err = f.svc.ListByHousing(ctx, f.housing.ID+100)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}
