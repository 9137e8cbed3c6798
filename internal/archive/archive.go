// Package archive decodes saved-page containers (Safari .webarchive
// property lists and RFC 2557 MHTML archives) into the flattened visible
// text the extraction engine consumes.
package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the container format of a snapshot file.
type Kind string

const (
	KindWebArchive Kind = "webarchive"
	KindMHTML      Kind = "mhtml"
	KindJSON       Kind = "json"
	KindUnknown    Kind = "unknown"
)

// ContentType says what the snapshot holds: a portfolio holdings page or
// a net-worth page.
type ContentType string

const (
	ContentPortfolio ContentType = "portfolio"
	ContentNetWorth  ContentType = "net_worth"
)

// DetectKind sniffs the container format from the file extension.
func DetectKind(filename string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".webarchive":
		return KindWebArchive
	case ".mhtml", ".mht":
		return KindMHTML
	case ".json":
		return KindJSON
	default:
		return KindUnknown
	}
}

// DetectContentType guesses portfolio vs net-worth from the filename.
// JSON exports are always net-worth timelines; everything else defaults
// to portfolio.
func DetectContentType(filename string) ContentType {
	base := strings.ToLower(filepath.Base(filename))
	if strings.HasSuffix(base, ".json") {
		return ContentNetWorth
	}
	if strings.Contains(base, "net worth") || strings.Contains(base, "net_worth") {
		return ContentNetWorth
	}
	return ContentPortfolio
}

// ExtractText decodes a snapshot container and returns the flattened
// visible text of the HTML document inside it. The extraction engine is
// never called on a decode failure.
func ExtractText(filename string, data []byte) (string, error) {
	switch kind := DetectKind(filename); kind {
	case KindWebArchive:
		return ExtractWebArchiveText(data)
	case KindMHTML:
		return ExtractMHTMLText(data)
	default:
		return "", fmt.Errorf("unsupported container %q for %q", kind, filename)
	}
}
