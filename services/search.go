package services

import (
	"sort"
	"strings"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// minSuggestionSimilarity is the lowest normalised edit similarity a name
// needs to be offered as "did you mean".
const minSuggestionSimilarity = 0.5

// NormalizeInput folds accents and case so "Café Lofts" matches "cafe lofts".
// Input is composed first so decomposed and precomposed accents fold alike.
func NormalizeInput(input string) string {
	input = norm.NFC.String(strings.TrimSpace(input))
	return strings.ToLower(unidecode.Unidecode(input))
}

// CalculateSimilarity is 1 - levenshtein distance / longer length.
func CalculateSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// Suggest picks up to max names close to term. Candidates come from a
// closestmatch bag-of-substrings index plus a direct edit-distance pass,
// and are ranked by edit similarity.
func Suggest(term string, names []string, max int) []string {
	query := NormalizeInput(term)
	if query == "" || len(names) == 0 || max <= 0 {
		return nil
	}

	byNorm := make(map[string]string, len(names))
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		norm := NormalizeInput(n)
		if _, dup := byNorm[norm]; dup || norm == "" {
			continue
		}
		byNorm[norm] = n
		normalized = append(normalized, norm)
	}

	type scored struct {
		name  string
		score float64
	}
	seen := make(map[string]bool)
	var picks []scored
	consider := func(norm string) {
		if seen[norm] {
			return
		}
		seen[norm] = true
		if sim := CalculateSimilarity(query, norm); sim >= minSuggestionSimilarity {
			picks = append(picks, scored{name: byNorm[norm], score: sim})
		}
	}

	cm := closestmatch.New(normalized, []int{2, 3})
	for _, norm := range cm.ClosestN(query, max) {
		consider(norm)
	}
	for _, norm := range normalized {
		consider(norm)
	}

	sort.Slice(picks, func(i, j int) bool {
		if picks[i].score != picks[j].score {
			return picks[i].score > picks[j].score
		}
		return picks[i].name < picks[j].name
	})
	if len(picks) > max {
		picks = picks[:max]
	}
	out := make([]string, len(picks))
	for i, p := range picks {
		out[i] = p.name
	}
	return out
}
