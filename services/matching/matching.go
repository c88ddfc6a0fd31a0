// Package matching scores how compatible two prospective roommates are from
// their bookmarked housings and their lifestyle preferences.
package matching

import (
	"fmt"
	"math"
	"sort"

	"campusnest/constants"
	"campusnest/models"
)

const weightTolerance = 1e-9

// Weights blends the two similarity signals. They must sum to 1.
type Weights struct {
	Bookmarks float64 `json:"bookmarks"`
	Prefs     float64 `json:"prefs"`
}

var DefaultWeights = Weights{Bookmarks: 0.6, Prefs: 0.4}

func (w Weights) Validate() error {
	if w.Bookmarks < 0 || w.Prefs < 0 {
		return fmt.Errorf("roommate weights must be non-negative, got %v/%v", w.Bookmarks, w.Prefs)
	}
	if math.Abs(w.Bookmarks+w.Prefs-1.0) > weightTolerance {
		return fmt.Errorf("roommate weights must sum to 1.0, got %v", w.Bookmarks+w.Prefs)
	}
	return nil
}

// Profile is the preference half of a candidate. Nil pointers mean the
// user left that attribute blank.
type Profile struct {
	PetsOK         bool
	SmokerOK       bool
	Cleanliness    *int
	NoiseTolerance *int
	SleepSchedule  *constants.SleepSchedule
}

// ProfileFrom copies the scoring fields out of a stored profile.
func ProfileFrom(p *models.RoommateProfile) *Profile {
	if p == nil {
		return nil
	}
	return &Profile{
		PetsOK:         p.PetsOK,
		SmokerOK:       p.SmokerOK,
		Cleanliness:    p.Cleanliness,
		NoiseTolerance: p.NoiseTolerance,
		SleepSchedule:  p.SleepSchedule,
	}
}

// Candidate is one user as seen by the scorer.
type Candidate struct {
	UserID    uint
	Username  string
	Bookmarks []uint
	Profile   *Profile
}

type Match struct {
	Candidate Candidate
	Score     float64
}

// Jaccard is |A∩B| / |A∪B| over housing ids, and 0 when either set is empty.
// Duplicate ids are counted once.
func Jaccard(a, b []uint) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[uint]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}
	setB := make(map[uint]struct{}, len(b))
	for _, id := range b {
		setB[id] = struct{}{}
	}
	inter := 0
	for id := range setA {
		if _, ok := setB[id]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// PreferenceSimilarity averages five per-attribute terms. A missing profile
// on either side yields 0.
func PreferenceSimilarity(a, b *Profile) float64 {
	if a == nil || b == nil {
		return 0
	}
	terms := [5]float64{
		scaleSimilarity(a.Cleanliness, b.Cleanliness),
		scaleSimilarity(a.NoiseTolerance, b.NoiseTolerance),
		boolSimilarity(a.PetsOK, b.PetsOK),
		boolSimilarity(a.SmokerOK, b.SmokerOK),
		sleepSimilarity(a.SleepSchedule, b.SleepSchedule),
	}
	var sum float64
	for _, t := range terms {
		sum += t
	}
	return sum / float64(len(terms))
}

// scaleSimilarity compares two 1-5 answers; unknown counts as neutral.
func scaleSimilarity(a, b *int) float64 {
	if a == nil || b == nil {
		return 0.5
	}
	return 1 - math.Abs(float64(*a-*b))/4
}

func boolSimilarity(a, b bool) float64 {
	if a == b {
		return 1
	}
	return 0
}

func sleepSimilarity(a, b *constants.SleepSchedule) float64 {
	if a != nil && b != nil && *a == *b {
		return 1
	}
	return 0
}

// Score is symmetric in a and b, and lies in [0,1] for valid weights.
func Score(a, b Candidate, w Weights) float64 {
	return w.Bookmarks*Jaccard(a.Bookmarks, b.Bookmarks) + w.Prefs*PreferenceSimilarity(a.Profile, b.Profile)
}

// Rank scores every candidate against the requester, highest first. Equal
// scores are ordered by user id. The requester is never included.
func Rank(requester Candidate, candidates []Candidate, w Weights) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID == requester.UserID {
			continue
		}
		matches = append(matches, Match{Candidate: c, Score: Score(requester, c, w)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Candidate.UserID < matches[j].Candidate.UserID
	})
	return matches
}
