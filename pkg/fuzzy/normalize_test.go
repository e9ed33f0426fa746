package fuzzy

import (
	"testing"
)

// runStringTransformationTest is a helper to run tests for string transformation functions.
func runStringTransformationTest(t *testing.T, testName string,
	transformFunc func(string) string, testCases []struct {
		name     string
		input    string
		expected string
	}) {
	t.Helper()
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result := transformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", testName, result, tt.expected)
			}
		})
	}
}

func TestNormalizer_NormalizeName(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple name", "The Beatles", "the beatles"},
		{"Punctuation", "P!nk", "p nk"},
		{"Accents", "Björk", "bjork"},
		{"Surrounding spaces", "  Daft   Punk ", "daft punk"},
		{"Empty", "", ""},
	}

	runStringTransformationTest(t, "NormalizeName", normalizer.NormalizeName, tests)
}

func TestNormalizer_NormalizeArtist(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple artist name", "The Beatles", "the beatles"},
		{"Artist with and", "Artist and Someone", "artist & someone"},
		{"Artist with vs", "Artist vs Someone", "artist vs. someone"},
		{"Artist with accents", "Sigur Rós", "sigur ros"},
	}

	runStringTransformationTest(t, "NormalizeArtist", normalizer.NormalizeArtist, tests)
}

func TestNormalizer_NormalizeTitle(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple title", "Hey Jude", "hey jude"},
		{"Title with featuring", "Song Title (feat. Artist)", "song title"},
		{"Title with remaster", "Song Title (Remastered)", "song title"},
		{"Title with version info", "Song Title - Radio Edit", "song title"},
		{"Title with punctuation", "Don't Stop Me Now!", "don t stop me now"},
		{"Title with multiple spaces", "Song    Title", "song title"},
		{"Title with dated remaster", "Yesterday - 2009 Remaster", "yesterday"},
		{"Edition word as the title", "Clean", "clean"},
		{"Edition word inside a word", "Unclean Hands", "unclean hands"},
		{"Edition word mid title", "Explicit Content Blues", "explicit content blues"},
	}

	runStringTransformationTest(t, "NormalizeTitle", normalizer.NormalizeTitle, tests)
}
