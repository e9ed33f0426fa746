package fuzzy

import (
	"math"
	"sort"
	"strings"
)

// Ratio scores the similarity of two strings from 0 to 100 using twice the
// longest common subsequence over the combined length.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	common := longestCommonSubsequence(ra, rb)
	return int(math.Round(200 * float64(common) / float64(len(ra)+len(rb))))
}

// PartialRatio scores the best alignment of the shorter string against every
// equally long window of the longer one.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}

	best := 0
	target := string(short)
	for i := 0; i+len(short) <= len(long); i++ {
		score := Ratio(target, string(long[i:i+len(short)]))
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}

	return best
}

// TokenSortRatio compares two strings after sorting their whitespace separated words.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Matcher scores catalog names against a free-text query. Both sides are
// normalized before scoring so case, accents and punctuation do not count.
type Matcher struct {
	normalizer *Normalizer
}

func NewMatcher() *Matcher {
	return &Matcher{normalizer: NewNormalizer()}
}

// PartialRatio is the eligibility score of a candidate name for a query.
func (m *Matcher) PartialRatio(query, name string) int {
	return PartialRatio(m.normalizer.NormalizeName(query), m.normalizer.NormalizeName(name))
}

// TitleContains reports whether a track name contains title once featuring
// credits and edition suffixes are ignored on both sides.
// An empty title matches nothing.
func (m *Matcher) TitleContains(name, title string) bool {
	want := m.normalizer.NormalizeTitle(title)
	if want == "" {
		return false
	}
	return strings.Contains(m.normalizer.NormalizeTitle(name), want)
}

// ArtistContains reports whether an artist name contains author.
func (m *Matcher) ArtistContains(artist, author string) bool {
	return strings.Contains(m.normalizer.NormalizeArtist(artist), m.normalizer.NormalizeArtist(author))
}

// Score ranks a candidate name against a query. It takes the strongest of the
// full, partial and token-sorted ratios, discounting the partial and
// token-sorted variants so full matches rank first.
func (m *Matcher) Score(query, name string) int {
	q := m.normalizer.NormalizeName(query)
	n := m.normalizer.NormalizeName(name)

	score := float64(Ratio(q, n))
	if partial := 0.9 * float64(PartialRatio(q, n)); partial > score {
		score = partial
	}
	if tokens := 0.95 * float64(TokenSortRatio(q, n)); tokens > score {
		score = tokens
	}

	return int(math.Round(score))
}

// ExtractOne returns the index and score of the best scoring choice. Ties keep
// the earliest choice. The index is -1 when choices is empty.
func (m *Matcher) ExtractOne(query string, choices []string) (int, int) {
	bestIndex, bestScore := -1, -1
	for i, choice := range choices {
		if score := m.Score(query, choice); score > bestScore {
			bestIndex, bestScore = i, score
		}
	}
	if bestIndex < 0 {
		return -1, 0
	}

	return bestIndex, bestScore
}
