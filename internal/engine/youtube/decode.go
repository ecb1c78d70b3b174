package youtube

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is the decoded ytInitialData object of one page.
type Document map[string]any

var (
	// ErrNoInitialData means neither assignment form was found in the page.
	ErrNoInitialData = errors.New("ytInitialData not found")
	// ErrDecode means the assignment was found but its object is not valid JSON.
	ErrDecode = errors.New("decode ytInitialData")
)

const initialDataMarker = "ytInitialData"

// Tried in order; the bare form also covers window-scoped assignments.
var initialDataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`var ytInitialData\s*=\s*`),
	regexp.MustCompile(`ytInitialData\s*=\s*`),
}

// DecodeInitialData locates the ytInitialData assignment in an HTML page and decodes
// its object literal. Script bodies are searched before the raw page.
func DecodeInitialData(page []byte) (Document, error) {
	sources := append(scriptBodies(page), page)

	var decodeErr error
	for _, re := range initialDataPatterns {
		for _, src := range sources {
			raw := assignedObject(re, src)
			if raw == nil {
				continue
			}
			var doc Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				decodeErr = err
				continue
			}
			return doc, nil
		}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, decodeErr)
	}
	return nil, ErrNoInitialData
}

// scriptBodies returns the text of every <script> element that mentions ytInitialData.
func scriptBodies(page []byte) [][]byte {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil
	}
	var out [][]byte
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if strings.Contains(text, initialDataMarker) {
			out = append(out, []byte(text))
		}
	})
	return out
}

// assignedObject returns the object literal following the first match of re that is
// directly followed by '{'.
func assignedObject(re *regexp.Regexp, src []byte) []byte {
	for _, loc := range re.FindAllIndex(src, -1) {
		rest := src[loc[1]:]
		if len(rest) == 0 || rest[0] != '{' {
			continue
		}
		if obj := extractJSON(rest); obj != nil {
			return obj
		}
	}
	return nil
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// root exposes the document as a plain tree for dig.
func (d Document) root() any {
	return map[string]any(d)
}

// browseTabs returns contents.twoColumnBrowseResultsRenderer.tabs.
func (d Document) browseTabs() []any {
	tabs, _ := digSlice(d.root(), "contents", "twoColumnBrowseResultsRenderer", "tabs")
	return tabs
}
