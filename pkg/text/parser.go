// Package text normalizes free-text playback requests and extracts catalog
// references from Spotify URIs and links.
package text

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// MinPartsForURI is the number of colon separated parts in spotify:<kind>:<id>.
	MinPartsForURI = 3

	spotifyIDLength = 22
)

var (
	ErrNoReference     = errors.New("no catalog reference")
	ErrUnsupportedKind = errors.New("unsupported reference kind")

	whitespaceRegex = regexp.MustCompile(`\s+`)
	spotifyIDRegex  = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)
	byRegex         = regexp.MustCompile(`(?i)\s+by\s+`)

	spotifyDomains = map[string]bool{
		"open.spotify.com": true,
		"play.spotify.com": true,
		"spotify.com":      true,
	}

	referenceKinds = map[string]bool{
		"track":    true,
		"artist":   true,
		"album":    true,
		"playlist": true,
	}
)

// Reference is a catalog object addressed by kind and identifier.
type Reference struct {
	Kind string
	ID   string
}

func (r Reference) URI() string {
	return fmt.Sprintf("spotify:%s:%s", r.Kind, r.ID)
}

// Request is a normalized free-text request. Author is set when the text
// carries an "<title> by <author>" hint.
type Request struct {
	Text   string
	Title  string
	Author string
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) ParseRequest(text string) Request {
	text = p.Normalize(text)
	request := Request{Text: text, Title: text}

	// The last " by " separates the author, so titles may contain "by" themselves.
	matches := byRegex.FindAllStringIndex(text, -1)
	if len(matches) > 0 {
		last := matches[len(matches)-1]
		title, author := strings.TrimSpace(text[:last[0]]), strings.TrimSpace(text[last[1]:])
		if title != "" && author != "" {
			request.Title = title
			request.Author = author
		}
	}

	return request
}

// Normalize applies NFKC and collapses all whitespace, including newlines, to single spaces.
func (p *Parser) Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// ParseReference recognizes spotify:<kind>:<id> URIs and open.spotify.com links.
func (p *Parser) ParseReference(raw string) (Reference, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), ".,!?;")

	if strings.HasPrefix(raw, "spotify:") {
		parts := strings.Split(raw, ":")
		if len(parts) < MinPartsForURI {
			return Reference{}, ErrNoReference
		}
		// spotify:user:<owner>:playlist:<id>
		kind, id := parts[len(parts)-2], parts[len(parts)-1]
		return p.reference(kind, id)
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return Reference{}, ErrNoReference
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Reference{}, fmt.Errorf("parse link: %w", err)
	}
	if !spotifyDomains[strings.ToLower(u.Hostname())] {
		return Reference{}, ErrNoReference
	}

	pathParts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(pathParts) - 2; i >= 0; i-- {
		if referenceKinds[pathParts[i]] {
			return p.reference(pathParts[i], pathParts[i+1])
		}
	}

	return Reference{}, ErrNoReference
}

// ExtractID accepts a bare identifier, a URI or a link and returns the
// identifier when it addresses an object of the expected kind.
func (p *Parser) ExtractID(kind, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if spotifyIDRegex.MatchString(raw) {
		return raw, nil
	}

	ref, err := p.ParseReference(raw)
	if err != nil {
		return "", err
	}
	if ref.Kind != kind {
		return "", fmt.Errorf("%w: expected %s, got %s", ErrUnsupportedKind, kind, ref.Kind)
	}

	return ref.ID, nil
}

func (p *Parser) reference(kind, id string) (Reference, error) {
	if !referenceKinds[kind] {
		return Reference{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	if idx := strings.IndexAny(id, "?#"); idx != -1 {
		id = id[:idx]
	}
	if len(id) != spotifyIDLength || !spotifyIDRegex.MatchString(id) {
		return Reference{}, ErrNoReference
	}

	return Reference{Kind: kind, ID: id}, nil
}
