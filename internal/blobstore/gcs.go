package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"real-estate-catalog/internal/apperr"
)

// GCS keeps blobs in a Google Cloud Storage bucket
type GCS struct {
	client     *storage.Client
	bucketName string
	pathPrefix string
	now        func() time.Time
}

// NewGCS opens a storage client. An empty credentialsFile uses application default credentials.
func NewGCS(ctx context.Context, bucketName, credentialsFile, pathPrefix string) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client, bucketName: bucketName, pathPrefix: pathPrefix, now: time.Now}, nil
}

// Close releases the storage client
func (g *GCS) Close() error {
	return g.client.Close()
}

func (g *GCS) object(ref string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucketName).Object(g.pathPrefix + ref)
}

func (g *GCS) Store(ctx context.Context, p Payload) (string, error) {
	ref := NewReference(p.Filename, g.now())

	// Upload an object with storage.Writer.
	wc := g.object(ref).NewWriter(ctx)
	wc.ContentType = ContentTypeOf(p)
	if _, err := wc.Write(p.Data); err != nil {
		wc.Close()
		return "", fmt.Errorf("upload %s: %w", ref, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", ref, err)
	}
	return ref, nil
}

func (g *GCS) Delete(ctx context.Context, ref string) error {
	if !validReference(ref) {
		return nil
	}
	err := g.object(ref).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCS) Resolve(ctx context.Context, ref string) (*Object, error) {
	if !validReference(ref) {
		return nil, apperr.NotFound("File", ref)
	}
	r, err := g.object(ref).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, apperr.NotFound("File", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	return &Object{Reader: r, ContentType: r.Attrs.ContentType, Size: r.Attrs.Size}, nil
}

// URL returns the public object URL
func (g *GCS) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s%s", g.bucketName, g.pathPrefix, ref)
}
