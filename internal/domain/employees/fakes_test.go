package employees

import (
	"context"
	"errors"
	"strconv"

	"empdir/internal/platform/uploads"
)

type failingInsertStore struct {
	*MemoryStore
	err error
}

func (f failingInsertStore) Insert(context.Context, Employee) (string, error) {
	return "", f.err
}

type fakeImages struct {
	saved   []string
	removed []string
}

func (f *fakeImages) Check(file *uploads.File) error {
	return uploads.NewStore("", 5*1024*1024).Check(file)
}

func (f *fakeImages) Save(file *uploads.File) (string, error) {
	path := "/uploads/" + strconv.Itoa(len(f.saved)+1) + "-" + file.Filename
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeImages) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

var errStoreDown = errors.New("store down")
