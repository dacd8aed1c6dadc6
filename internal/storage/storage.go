// Package storage persists uploaded payment proofs and hands back the public
// URL an administrator reviews them under.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const defaultExt = "png"

var (
	ErrUnsupportedType = errors.New("unsupported proof content type")
	ErrTooLarge        = errors.New("proof file exceeds the size limit")
)

var allowedContentTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// Store saves a proof image and returns its public URL.
type Store interface {
	Save(ctx context.Context, raffleID uint, ticketNumber int, filename, contentType string, size int64, r io.Reader) (string, error)
}

// DiskStore writes proofs under root using the
// {raffleID}/{number}_{unixTimestamp}.{ext} convention and builds URLs from
// baseURL, where the API serves the directory statically.
type DiskStore struct {
	root     string
	baseURL  string
	maxBytes int64

	// Injectable clock keeps stored paths deterministic in tests.
	now func() time.Time
}

func NewDiskStore(root, baseURL string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create proof root: %w", err)
	}

	return &DiskStore{
		root:     root,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
	}, nil
}

func (s *DiskStore) Save(ctx context.Context, raffleID uint, ticketNumber int, filename, contentType string, size int64, r io.Reader) (string, error) {
	if _, ok := allowedContentTypes[contentType]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return "", ErrTooLarge
	}

	relPath := buildPath(raffleID, ticketNumber, filename, s.now())

	dir := filepath.Join(s.root, filepath.Dir(relPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create proof dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.root, relPath))
	if err != nil {
		return "", fmt.Errorf("create proof file: %w", err)
	}
	defer dst.Close()

	limit := io.Reader(r)
	if s.maxBytes > 0 {
		limit = io.LimitReader(r, s.maxBytes+1)
	}
	written, err := io.Copy(dst, limit)
	if err != nil {
		return "", fmt.Errorf("write proof file: %w", err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		os.Remove(dst.Name())
		return "", ErrTooLarge
	}

	return s.baseURL + "/proofs/" + relPath, nil
}

func buildPath(raffleID uint, ticketNumber int, filename string, now time.Time) string {
	ext := defaultExt
	if idx := strings.LastIndex(filename, "."); idx >= 0 && idx < len(filename)-1 {
		ext = strings.ToLower(filename[idx+1:])
	}

	return path.Join(
		fmt.Sprintf("%d", raffleID),
		fmt.Sprintf("%d_%d.%s", ticketNumber, now.Unix(), ext),
	)
}
