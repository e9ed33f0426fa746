package fuzzy

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"Identical", "hello", "hello", 100},
		{"Both empty", "", "", 100},
		{"One empty", "", "hello", 0},
		{"Disjoint", "abc", "xyz", 0},
		{"Half common", "abcd", "abxy", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); got != tt.expected {
				t.Errorf("Ratio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"Substring", "beatles", "the beatles", 100},
		{"Substring reversed arguments", "the beatles", "beatles", 100},
		{"Disjoint", "abc", "xyz", 0},
		{"Empty against text", "", "abc", 0},
		{"Partial window", "abcd", "xxabxy", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PartialRatio(tt.a, tt.b); got != tt.expected {
				t.Errorf("PartialRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestTokenSortRatio(t *testing.T) {
	if got := TokenSortRatio("punk daft", "daft punk"); got != 100 {
		t.Errorf("TokenSortRatio() = %d, want 100", got)
	}
}

func TestMatcher_PartialRatioIgnoresCaseAndAccents(t *testing.T) {
	matcher := NewMatcher()

	if got := matcher.PartialRatio("BJORK", "Björk"); got != 100 {
		t.Errorf("PartialRatio() = %d, want 100", got)
	}
	if got := matcher.PartialRatio("zzzz", "Metallica"); got > 50 {
		t.Errorf("PartialRatio() = %d, want <= 50", got)
	}
}

func TestMatcher_ExtractOne(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name          string
		query         string
		choices       []string
		expectedIndex int
	}{
		{"Full match beats containing match", "daft punk", []string{"Daft Punk Tribute", "Daft Punk"}, 1},
		{"Ties keep first seen", "abc", []string{"abc", "abc"}, 0},
		{"Single choice", "anything", []string{"Other"}, 0},
		{"No choices", "anything", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, _ := matcher.ExtractOne(tt.query, tt.choices)
			if index != tt.expectedIndex {
				t.Errorf("ExtractOne() index = %d, want %d", index, tt.expectedIndex)
			}
		})
	}
}

func TestMatcher_Contains(t *testing.T) {
	matcher := NewMatcher()

	if !matcher.TitleContains("Yesterday - Remastered 2009", "yesterday") {
		t.Error("TitleContains() should ignore the edition suffix")
	}
	if !matcher.TitleContains("Get Lucky (feat. Pharrell Williams)", "GET LUCKY") {
		t.Error("TitleContains() should ignore featuring credits and case")
	}
	if matcher.TitleContains("Yesterday", "tomorrow") {
		t.Error("TitleContains() matched an unrelated title")
	}
	if matcher.TitleContains("Some Other Song", "Clean") {
		t.Error("TitleContains() matched a title made of an edition word")
	}
	if !matcher.TitleContains("Unclean Hands", "unclean hands") {
		t.Error("TitleContains() should keep edition words inside other words")
	}
	if matcher.TitleContains("Anything", "(feat. Nobody)") {
		t.Error("TitleContains() matched an empty title")
	}
	if !matcher.ArtistContains("Sigur Rós", "sigur ros") {
		t.Error("ArtistContains() should ignore accents")
	}
	if !matcher.ArtistContains("The Beatles", "beatles") {
		t.Error("ArtistContains() should match a partial name")
	}
}
