package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"real-estate-catalog/internal/apperr"
)

// Local keeps blobs in a directory served under a public URL prefix
type Local struct {
	dir          string
	publicPrefix string
	now          func() time.Time
}

// NewLocal creates the directory if needed
func NewLocal(dir, publicPrefix string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if !strings.HasSuffix(publicPrefix, "/") {
		publicPrefix += "/"
	}
	return &Local{dir: abs, publicPrefix: publicPrefix, now: time.Now}, nil
}

func (l *Local) Store(ctx context.Context, p Payload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := NewReference(p.Filename, l.now())
	target := filepath.Join(l.dir, ref)

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", ref, err)
	}
	if _, err := f.ReadFrom(reader(p)); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("write %s: %w", ref, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("close %s: %w", ref, err)
	}
	return ref, nil
}

func (l *Local) Delete(_ context.Context, ref string) error {
	if !validReference(ref) {
		return nil
	}
	err := os.Remove(filepath.Join(l.dir, ref))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", ref, err)
	}
	return nil
}

func (l *Local) Resolve(_ context.Context, ref string) (*Object, error) {
	if !validReference(ref) {
		return nil, apperr.NotFound("File", ref)
	}
	path := filepath.Join(l.dir, ref)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NotFound("File", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", ref, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(ref))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Object{Reader: f, ContentType: contentType, Size: info.Size()}, nil
}

func (l *Local) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return l.publicPrefix + ref
}
