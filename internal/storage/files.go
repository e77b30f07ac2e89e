// Package storage keeps uploaded images on local disk under one root directory.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const DefaultMaxBytes = 5 * 1024 * 1024

var ErrInvalidImage = errors.New("invalid image")

var allowedExt = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

type DiskStore struct {
	Root     string
	MaxBytes int64
}

func NewDiskStore(root string, maxBytes int64) *DiskStore {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &DiskStore{Root: root, MaxBytes: maxBytes}
}

// Extension returns the lower-cased allowed extension of filename.
func Extension(filename string) (string, error) {
	i := strings.LastIndex(filename, ".")
	if filename == "" || i < 0 || i == len(filename)-1 {
		return "", fmt.Errorf("%w: missing file extension", ErrInvalidImage)
	}
	ext := strings.ToLower(filename[i+1:])
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: type %q not allowed, use png, jpg, jpeg, gif or webp", ErrInvalidImage, ext)
	}
	return ext, nil
}

// Save writes r under <root>/<folder>/<uuid>.<ext> and returns the stored file name.
// size is the declared upload size; the copy is capped at MaxBytes regardless.
func (s *DiskStore) Save(folder, filename string, size int64, r io.Reader) (string, error) {
	ext, err := Extension(filename)
	if err != nil {
		return "", err
	}
	if size > s.MaxBytes {
		return "", fmt.Errorf("%w: file larger than %d bytes", ErrInvalidImage, s.MaxBytes)
	}

	dir := filepath.Join(s.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.MaxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > s.MaxBytes {
		err = fmt.Errorf("%w: file larger than %d bytes", ErrInvalidImage, s.MaxBytes)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return name, nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (s *DiskStore) Delete(folder, name string) error {
	if name == "" || name != filepath.Base(name) {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, folder, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *DiskStore) Exists(folder, name string) bool {
	if name == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.Root, folder, name))
	return err == nil
}
