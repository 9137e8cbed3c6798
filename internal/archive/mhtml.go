package archive

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// ExtractMHTMLText decodes an RFC 2557 MHTML archive (as saved by Chrome
// and Edge) and flattens the first text/html part into visible text.
func ExtractMHTMLText(data []byte) (string, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read mhtml message: %w", err)
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("parse mhtml content type: %w", err)
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		// Single-part save: the body is the document itself.
		if !strings.Contains(mediaType, "html") {
			return "", fmt.Errorf("mhtml body is %q, not html", mediaType)
		}
		body, err := decodeTransfer(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			return "", err
		}
		return FlattenHTML(body)
	}

	boundary := params["boundary"]
	if boundary == "" {
		return "", fmt.Errorf("mhtml multipart missing boundary")
	}

	mr := multipart.NewReader(msg.Body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read mhtml part: %w", err)
		}
		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if partType != "text/html" {
			continue
		}
		body, err := decodeTransfer(part, part.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			return "", err
		}
		return FlattenHTML(body)
	}
	return "", fmt.Errorf("mhtml archive has no text/html part")
}

// decodeTransfer undoes the part's Content-Transfer-Encoding. MHTML
// savers emit quoted-printable for the document and base64 for binary
// subresources; anything else is passed through.
func decodeTransfer(r io.Reader, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode transfer encoding %q: %w", encoding, err)
	}
	return body, nil
}
