package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicPrefix is the URL prefix stored on records and served by Handler.
const PublicPrefix = "/uploads/"

var (
	ErrNotImage = errors.New("Please select an image file")
	ErrTooLarge = errors.New("File size must be less than 5MB")
)

type File struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type Store struct {
	Dir      string
	MaxBytes int64
	// Now names files; defaults to time.Now.
	Now func() time.Time
}

func NewStore(dir string, maxBytes int64) *Store {
	return &Store{Dir: dir, MaxBytes: maxBytes, Now: time.Now}
}

// Check applies the image policy without touching the disk.
func (s *Store) Check(file *File) error {
	if file == nil {
		return nil
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(file.ContentType)), "image/") {
		return ErrNotImage
	}
	if s.MaxBytes > 0 && file.Size > s.MaxBytes {
		return ErrTooLarge
	}
	return nil
}

// Save writes the file under a generated name and returns its public path.
func (s *Store) Save(file *File) (string, error) {
	if err := s.Check(file); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := s.generateName(file.ContentType)
	target := filepath.Join(s.Dir, name)
	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	reader := file.Content
	if s.MaxBytes > 0 {
		reader = io.LimitReader(file.Content, s.MaxBytes+1)
	}
	written, err := io.Copy(out, reader)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && s.MaxBytes > 0 && written > s.MaxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(target)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return PublicPrefix + name, nil
}

// Remove deletes a file previously returned by Save. Unknown paths are ignored.
func (s *Store) Remove(publicPath string) error {
	name, ok := strings.CutPrefix(publicPath, PublicPrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) Handler() http.Handler {
	return http.StripPrefix(strings.TrimSuffix(PublicPrefix, "/"), http.FileServer(noListing{http.Dir(s.Dir)}))
}

// imageExtensions maps the declared media type to the served extension.
// Other image types are stored without one.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
	"image/avif": ".avif",
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return imageExtensions[mediaType]
}

func (s *Store) generateName(contentType string) string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return strconv.FormatInt(now().UnixMilli(), 10) + "-" + uuid.NewString() + extensionFor(contentType)
}

type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
