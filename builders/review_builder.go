package builders

import (
	"campusnest/constants"
	"campusnest/models"
)

// ReviewBuilder assembles a review step by step.
type ReviewBuilder struct {
	review *models.Review
}

func NewReviewBuilder() *ReviewBuilder {
	return &ReviewBuilder{
		review: &models.Review{},
	}
}

func (b *ReviewBuilder) ForHousing(housingID uint) *ReviewBuilder {
	b.review.HousingID = housingID
	return b
}

func (b *ReviewBuilder) ByUser(userID uint) *ReviewBuilder {
	b.review.UserID = userID
	return b
}

// WithRatings sets cost, safety, management and noise, in that order.
func (b *ReviewBuilder) WithRatings(cost, safety, management, noise int) *ReviewBuilder {
	b.review.Cost = cost
	b.review.Safety = safety
	b.review.Management = management
	b.review.Noise = noise
	return b
}

func (b *ReviewBuilder) WithTags(tag1, tag2, tag3 constants.Tag) *ReviewBuilder {
	b.review.Tag1 = tag1
	b.review.Tag2 = tag2
	b.review.Tag3 = tag3
	return b
}

func (b *ReviewBuilder) WithComment(comment string) *ReviewBuilder {
	b.review.Comment = comment
	return b
}

func (b *ReviewBuilder) Build() *models.Review {
	return b.review
}
