// Package gcsuploader moves snapshot files between the local filesystem,
// HTTP request bodies and Google Cloud Storage.
package gcsuploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"
)

const uploadTimeout = 2 * time.Minute

// StorageService is the interface the pipeline and handlers use for
// object storage.
type StorageService interface {
	UploadFile(ctx context.Context, bucketName, objectName, filePath string) error
	UploadStream(ctx context.Context, bucketName, objectName, contentType string, r io.Reader) (int64, error)
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
	ExtractFilenameFromGCSURI(uri string) string
}

// UploadFile uploads a local file to a GCS bucket under the given object
// name. It assumes Application Default Credentials are configured.
func UploadFile(ctx context.Context, bucketName, objectName, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	svc, err := NewGCSStorageService(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	_, err = svc.UploadStream(ctx, bucketName, objectName, "", f)
	return err
}

// FetchFromGCS downloads the object bytes behind a gs:// URI.
func FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	svc, err := NewGCSStorageService(ctx)
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	return svc.FetchFromGCS(ctx, gcsURI)
}

// SplitGCSURI splits "gs://bucket/path/to/object" into bucket and object
// path.
func SplitGCSURI(gcsURI string) (bucket, object string, err error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}

// ExtractFilenameFromGCSURI extracts the filename from a GCS URI.
// e.g., "gs://bucket/folder/snapshot.webarchive" → "snapshot.webarchive"
func ExtractFilenameFromGCSURI(uri string) string {
	_, object, err := SplitGCSURI(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "gs://")
	}
	return path.Base(object)
}
