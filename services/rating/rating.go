// Package rating computes aggregate scores over a set of reviews.
package rating

import (
	"campusnest/constants"
	"campusnest/models"
)

// DefaultTopTags is how many tags a summary carries.
const DefaultTopTags = 3

// Sample is the part of a review the calculator reads.
type Sample struct {
	Cost       int
	Safety     int
	Management int
	Noise      int
	Tags       []constants.Tag
}

// Summary holds the four means and the most frequent tags. Means are nil
// when there are no reviews.
type Summary struct {
	AvgCost       *float64        `json:"avgCost"`
	AvgSafety     *float64        `json:"avgSafety"`
	AvgManagement *float64        `json:"avgManagement"`
	AvgNoise      *float64        `json:"avgNoise"`
	ReviewCount   int             `json:"reviewCount"`
	TopTags       []constants.Tag `json:"topTags"`
}

// FromReviews converts stored reviews. Order is preserved since it decides
// tag ties.
func FromReviews(reviews []models.Review) []Sample {
	samples := make([]Sample, len(reviews))
	for i, r := range reviews {
		samples[i] = Sample{
			Cost:       r.Cost,
			Safety:     r.Safety,
			Management: r.Management,
			Noise:      r.Noise,
			Tags:       r.Tags(),
		}
	}
	return samples
}

func Compute(samples []Sample) Summary {
	s := Summary{
		ReviewCount: len(samples),
		TopTags:     TopTags(samples, DefaultTopTags),
	}
	if len(samples) == 0 {
		return s
	}

	var cost, safety, management, noise int
	for _, r := range samples {
		cost += r.Cost
		safety += r.Safety
		management += r.Management
		noise += r.Noise
	}
	n := float64(len(samples))
	s.AvgCost = mean(cost, n)
	s.AvgSafety = mean(safety, n)
	s.AvgManagement = mean(management, n)
	s.AvgNoise = mean(noise, n)
	return s
}

func mean(sum int, n float64) *float64 {
	v := float64(sum) / n
	return &v
}

// TopTags returns up to k tags by descending frequency. Ties go to the tag
// first encountered when scanning samples in order, tag1 through tag3.
// Empty tags are skipped.
func TopTags(samples []Sample, k int) []constants.Tag {
	if k <= 0 {
		return []constants.Tag{}
	}
	counts := make(map[constants.Tag]int)
	var order []constants.Tag
	for _, r := range samples {
		for _, t := range r.Tags {
			if t == "" {
				continue
			}
			if _, seen := counts[t]; !seen {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	// Stable selection keeps first-seen order among equal counts.
	top := make([]constants.Tag, 0, k)
	used := make(map[constants.Tag]bool, k)
	for len(top) < k && len(top) < len(order) {
		var best constants.Tag
		bestCount := 0
		for _, t := range order {
			if used[t] {
				continue
			}
			if counts[t] > bestCount {
				best, bestCount = t, counts[t]
			}
		}
		used[best] = true
		top = append(top, best)
	}
	return top
}
