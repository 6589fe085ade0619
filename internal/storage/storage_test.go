package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestNameFor(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		head        []byte
		wantExt     string
		wantType    string
	}{
		{
			name:        "extension from filename",
			filename:    "Hair.JPG",
			contentType: "image/jpeg",
			head:        []byte("not really a jpeg"),
			wantExt:     ".jpg",
			wantType:    "image/jpeg",
		},
		{
			name:     "sniffed when filename has no extension",
			filename: "photo",
			head:     pngHeader,
			wantExt:  ".png",
			wantType: "image/png",
		},
		{
			name:        "octet-stream replaced by sniffed type",
			filename:    "../../etc/x.png",
			contentType: "application/octet-stream",
			head:        pngHeader,
			wantExt:     ".png",
			wantType:    "image/png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ctype := NameFor(tt.filename, tt.contentType, tt.head)
			if !strings.HasSuffix(name, tt.wantExt) {
				t.Errorf("NameFor() name = %v, want suffix %v", name, tt.wantExt)
			}
			if strings.ContainsAny(name, `/\`) {
				t.Errorf("NameFor() name = %v contains a path separator", name)
			}
			if ctype != tt.wantType {
				t.Errorf("NameFor() contentType = %v, want %v", ctype, tt.wantType)
			}
		})
	}

	a, _ := NameFor("a.png", "image/png", pngHeader)
	b, _ := NameFor("a.png", "image/png", pngHeader)
	if a == b {
		t.Errorf("NameFor() returned the same name twice: %v", a)
	}
}

func TestLocalStore_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	ref, err := store.Put(context.Background(), "abc.png", "image/png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if ref != "/uploads/abc.png" {
		t.Errorf("Put() ref = %v, want %v", ref, "/uploads/abc.png")
	}

	data, err := os.ReadFile(filepath.Join(dir, "abc.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(data, pngHeader) {
		t.Errorf("stored bytes = %v, want %v", data, pngHeader)
	}

	if _, err := store.Put(context.Background(), "abc.png", "image/png", bytes.NewReader(pngHeader), 1); err == nil {
		t.Error("Put() over an existing name should fail")
	}
	if _, err := store.Put(context.Background(), "../escape.png", "image/png", bytes.NewReader(pngHeader), 1); err == nil {
		t.Error("Put() with a path in the name should fail")
	}
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		opts S3Options
		want string
	}{
		{
			name: "explicit public url",
			opts: S3Options{Bucket: "b", Region: "ap-northeast-2", PublicBaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com",
		},
		{
			name: "custom endpoint",
			opts: S3Options{Bucket: "b", Endpoint: "https://s3.example.net"},
			want: "https://s3.example.net/b",
		},
		{
			name: "aws virtual host",
			opts: S3Options{Bucket: "b", Region: "ap-northeast-2"},
			want: "https://b.s3.ap-northeast-2.amazonaws.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := publicBaseURL(tt.opts); got != tt.want {
				t.Errorf("publicBaseURL() = %v, want %v", got, tt.want)
			}
		})
	}
}
