package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"real-estate-catalog/internal/apperr"
	"real-estate-catalog/internal/blobstore"
	"real-estate-catalog/internal/cache"
	"real-estate-catalog/internal/database"
	"real-estate-catalog/internal/database/dbtest"
	"real-estate-catalog/internal/logging"
)

// fakeBlobs is an in-memory blob store with failure injection
type fakeBlobs struct {
	mu          sync.Mutex
	objects     map[string][]byte
	seq         int
	storeCalls  int
	failStoreAt int
	failDelete  func(ref string) bool
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (f *fakeBlobs) Store(_ context.Context, p blobstore.Payload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.storeCalls++
	if f.failStoreAt > 0 && f.storeCalls == f.failStoreAt {
		return "", errors.New("bucket unavailable")
	}
	f.seq++
	ref := fmt.Sprintf("%03d_%s", f.seq, p.Filename)
	f.objects[ref] = p.Data
	return ref, nil
}

func (f *fakeBlobs) Delete(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDelete != nil && f.failDelete(ref) {
		return errors.New("permission denied")
	}
	delete(f.objects, ref)
	return nil
}

func (f *fakeBlobs) Resolve(_ context.Context, ref string) (*blobstore.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[ref]
	if !ok {
		return nil, apperr.NotFound("File", ref)
	}
	return &blobstore.Object{Reader: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data))}, nil
}

func (f *fakeBlobs) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return "/api/files/" + ref
}

func (f *fakeBlobs) has(ref string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[ref]
	return ok
}

func (f *fakeBlobs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func images(n int) []blobstore.Payload {
	files := make([]blobstore.Payload, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, blobstore.Payload{
			Filename:    fmt.Sprintf("img%d.png", i),
			ContentType: "image/png",
			Size:        int64(len(pngBytes)),
			Data:        pngBytes,
		})
	}
	return files
}

type fixture struct {
	svc   *Service
	db    *database.GormDB
	blobs *fakeBlobs
	cache *cache.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := dbtest.New(t)
	blobs := newFakeBlobs()
	mem := cache.NewMemoryStore(0)
	logger := logging.Discard()

	// strictly increasing clock keeps created_at ordering deterministic
	var mu sync.Mutex
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}

	svc := NewService(NewGormStore(gdb), blobs, cache.NewLayer(mem, logger), logger, DefaultRules(), WithClock(clock))
	return &fixture{svc: svc, db: gdb, blobs: blobs, cache: mem}
}

func validInput() PropertyInput {
	return PropertyInput{
		Title:         "Sea View Villa",
		Price:         decimal.NewFromInt(2500000),
		Description:   "Four bedroom villa by the beach",
		Address:       "12 Beach Road",
		City:          "Goa",
		State:         "GA",
		Zip:           "403001",
		Bedrooms:      4,
		Bathrooms:     decimal.NewFromFloat(2.5),
		SquareFootage: 2400,
		PropertyType:  "Villa",
	}
}

func (f *fixture) create(t *testing.T, mutate func(*PropertyInput)) PropertyView {
	t.Helper()
	in := validInput()
	if mutate != nil {
		mutate(&in)
	}
	view, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	return view
}
