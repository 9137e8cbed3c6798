package archive

import (
	"bytes"
	"fmt"

	"howett.net/plist"
)

// webArchive mirrors the subset of Safari's .webarchive property list
// needed to recover the main HTML document. Subresources (images, CSS)
// are ignored.
type webArchive struct {
	MainResource webResource `plist:"WebMainResource"`
}

type webResource struct {
	Data     []byte `plist:"WebResourceData"`
	MIMEType string `plist:"WebResourceMIMEType"`
	URL      string `plist:"WebResourceURL"`
}

// ExtractWebArchiveText decodes a binary-plist .webarchive and flattens
// the main resource's HTML into visible text.
func ExtractWebArchiveText(data []byte) (string, error) {
	var arch webArchive
	if err := plist.NewDecoder(bytes.NewReader(data)).Decode(&arch); err != nil {
		return "", fmt.Errorf("decode webarchive plist: %w", err)
	}
	if len(arch.MainResource.Data) == 0 {
		return "", fmt.Errorf("webarchive has no main resource data")
	}
	return FlattenHTML(arch.MainResource.Data)
}
