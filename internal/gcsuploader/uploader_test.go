package gcsuploader

import "testing"

func TestSplitGCSURI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		object  string
		wantErr bool
	}{
		{"gs://snapshots/2025/07/dashboard.webarchive", "snapshots", "2025/07/dashboard.webarchive", false},
		{"gs://bucket/file.mhtml", "bucket", "file.mhtml", false},
		{"gs://bucket/", "", "", true},
		{"gs://bucket", "", "", true},
		{"http://bucket/file", "", "", true},
	}
	for _, tt := range tests {
		bucket, object, err := SplitGCSURI(tt.uri)
		if (err != nil) != tt.wantErr {
			t.Errorf("SplitGCSURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			continue
		}
		if bucket != tt.bucket || object != tt.object {
			t.Errorf("SplitGCSURI(%q) = %q, %q, want %q, %q", tt.uri, bucket, object, tt.bucket, tt.object)
		}
	}
}

func TestExtractFilenameFromGCSURI(t *testing.T) {
	tests := []struct{ uri, want string }{
		{"gs://snapshots/2025/07/dashboard.webarchive", "dashboard.webarchive"},
		{"gs://bucket/file.mhtml", "file.mhtml"},
		{"gs://justbucket", "justbucket"},
	}
	for _, tt := range tests {
		if got := ExtractFilenameFromGCSURI(tt.uri); got != tt.want {
			t.Errorf("ExtractFilenameFromGCSURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
