package uploads

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCheck(t *testing.T) {
	store := NewStore(t.TempDir(), 5*1024*1024)

	tests := []struct {
		name string
		file *File
		want error
	}{
		{name: "nil file", file: nil, want: nil},
		{name: "png", file: &File{ContentType: "image/png", Size: 1024}, want: nil},
		{name: "uppercase type", file: &File{ContentType: "IMAGE/JPEG", Size: 10}, want: nil},
		{name: "pdf", file: &File{ContentType: "application/pdf", Size: 10}, want: ErrNotImage},
		{name: "empty type", file: &File{ContentType: "", Size: 10}, want: ErrNotImage},
		{name: "exactly limit", file: &File{ContentType: "image/gif", Size: 5 * 1024 * 1024}, want: nil},
		{name: "over limit", file: &File{ContentType: "image/gif", Size: 5*1024*1024 + 1}, want: ErrTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.Check(tc.file); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 1024)
	store.Now = func() time.Time { return time.UnixMilli(1700000000000) }

	publicPath, err := store.Save(&File{
		Filename:    "avatar.PNG",
		ContentType: "image/png",
		Size:        4,
		Content:     strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(publicPath, "/uploads/1700000000000-") || !strings.HasSuffix(publicPath, ".png") {
		t.Fatalf("unexpected public path %q", publicPath)
	}

	onDisk := filepath.Join(dir, strings.TrimPrefix(publicPath, PublicPrefix))
	data, err := os.ReadFile(onDisk)
	if err != nil || string(data) != "data" {
		t.Fatalf("expected stored content, got %q err=%v", data, err)
	}

	if err := store.Remove(publicPath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
	if err := store.Remove("/elsewhere/../../etc/passwd"); err != nil {
		t.Fatalf("expected foreign path to be ignored, got %v", err)
	}
}

func TestSaveNamesFileByDeclaredType(t *testing.T) {
	store := NewStore(t.TempDir(), 1024)

	tests := []struct {
		filename    string
		contentType string
		wantExt     string
	}{
		{filename: "x.html", contentType: "image/png", wantExt: ".png"},
		{filename: "photo", contentType: "IMAGE/JPEG; charset=binary", wantExt: ".jpg"},
		{filename: "logo.svg", contentType: "image/svg+xml", wantExt: ""},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			publicPath, err := store.Save(&File{
				Filename:    tc.filename,
				ContentType: tc.contentType,
				Size:        4,
				Content:     strings.NewReader("data"),
			})
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if got := filepath.Ext(publicPath); got != tc.wantExt {
				t.Fatalf("expected extension %q, got %q (%s)", tc.wantExt, got, publicPath)
			}
		})
	}
}

func TestSaveRejectsUnderreportedSize(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 4)

	_, err := store.Save(&File{
		Filename:    "big.jpg",
		ContentType: "image/jpeg",
		Size:        1,
		Content:     strings.NewReader("too many bytes"),
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected partial file cleaned up, found %d entries", len(entries))
	}
}

func TestHandlerServesFilesButNotListings(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pic.png"), []byte("img"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	handler := NewStore(dir, 0).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/pic.png", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "img" {
		t.Fatalf("expected file served, got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected directory listing to be hidden, got %d", rec.Code)
	}
}
