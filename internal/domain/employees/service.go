package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"empdir/internal/platform/uploads"
)

// ImageStore persists profile pictures outside the record store.
type ImageStore interface {
	Check(file *uploads.File) error
	Save(file *uploads.File) (string, error)
	Remove(publicPath string) error
}

type Service struct {
	store  Store
	images ImageStore
	Clock  func() time.Time
}

func NewService(store Store, images ImageStore) *Service {
	return &Service{store: store, images: images, Clock: time.Now}
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

func (s *Service) ValidID(id string) bool {
	return s.store.ValidID(id)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Employee, error) {
	return s.store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) checkImage(image *uploads.File) error {
	if image == nil {
		return nil
	}
	if s.images == nil {
		return errors.New("image uploads are not configured")
	}
	if err := s.images.Check(image); err != nil {
		if errors.Is(err, uploads.ErrNotImage) || errors.Is(err, uploads.ErrTooLarge) {
			return &ValidationError{Issues: []Issue{{Field: "profile_picture", Reason: err.Error()}}}
		}
		return err
	}
	return nil
}

func (s *Service) saveImage(image *uploads.File) (*string, error) {
	if image == nil {
		return nil, nil
	}
	path, err := s.images.Save(image)
	if err != nil {
		if errors.Is(err, uploads.ErrNotImage) || errors.Is(err, uploads.ErrTooLarge) {
			return nil, &ValidationError{Issues: []Issue{{Field: "profile_picture", Reason: err.Error()}}}
		}
		return nil, fmt.Errorf("save profile picture: %w", err)
	}
	return &path, nil
}

func (s *Service) discardImage(path *string) {
	if path == nil {
		return
	}
	if err := s.images.Remove(*path); err != nil {
		slog.Warn("remove orphaned profile picture failed", "path", *path, "err", err)
	}
}

// Create validates, rejects duplicate emails, stores the image and inserts the record.
func (s *Service) Create(ctx context.Context, fields Fields, image *uploads.File) (string, error) {
	if err := fields.Validate(); err != nil {
		return "", err
	}
	if err := s.checkImage(image); err != nil {
		return "", err
	}

	exists, err := s.store.EmailExists(ctx, fields.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrConflict
	}

	picture, err := s.saveImage(image)
	if err != nil {
		return "", err
	}

	now := s.now()
	id, err := s.store.Insert(ctx, Employee{
		FirstName:      fields.FirstName,
		LastName:       fields.LastName,
		Email:          fields.Email,
		Position:       fields.Position,
		Salary:         fields.Salary,
		DateOfJoining:  fields.DateOfJoining,
		Department:     fields.Department,
		ProfilePicture: picture,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		s.discardImage(picture)
		return "", err
	}
	return id, nil
}

// Update applies a partial change. Email uniqueness is left to the store.
func (s *Service) Update(ctx context.Context, id string, patch Patch, image *uploads.File) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if err := s.checkImage(image); err != nil {
		return err
	}

	picture, err := s.saveImage(image)
	if err != nil {
		return err
	}

	err = s.store.Update(ctx, id, Change{Patch: patch, ProfilePicture: picture, UpdatedAt: s.now()})
	if err != nil {
		s.discardImage(picture)
		return err
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
