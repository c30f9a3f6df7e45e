package blobstore

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real-estate-catalog/internal/apperr"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func pngPayload(name string) Payload {
	return Payload{Filename: name, ContentType: "image/png", Size: int64(len(pngBytes)), Data: pngBytes}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(pngPayload("front.PNG"), 1<<20))

	cases := map[string]Payload{
		"empty name":    pngPayload(""),
		"traversal":     pngPayload("../../etc/passwd.png"),
		"bad extension": pngPayload("notes.txt"),
		"empty body":    {Filename: "a.png"},
		"not an image":  {Filename: "a.png", Size: 5, Data: []byte("hello")},
		"too large":     pngPayload("big.png"),
	}
	for name, p := range cases {
		limit := int64(1 << 20)
		if name == "too large" {
			limit = 8
		}
		err := Validate(p, limit)
		assert.True(t, apperr.Is(err, apperr.KindBadRequest), name)
	}
}

func TestReadPayloadLimit(t *testing.T) {
	p, err := ReadPayload("a.png", "image/png", bytes.NewReader(make([]byte, 100)), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.Size)
	assert.Error(t, Validate(p, 10))
}

func TestNewReference(t *testing.T) {
	ref := NewReference("Living Room.JPEG", time.UnixMilli(1700000000123))
	assert.Regexp(t, regexp.MustCompile(`^1700000000123_[0-9a-f-]{36}\.jpeg$`), ref)
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir(), "/api/files")
	require.NoError(t, err)

	ref, err := store.Store(ctx, pngPayload("front.png"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".png"))
	assert.Equal(t, "/api/files/"+ref, store.URL(ref))

	obj, err := store.Resolve(ctx, ref)
	require.NoError(t, err)
	data, err := io.ReadAll(obj.Reader)
	require.NoError(t, obj.Reader.Close())
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Resolve(ctx, ref)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	// deleting again is not an error
	assert.NoError(t, store.Delete(ctx, ref))
}

func TestLocalRejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/api/files/")
	require.NoError(t, err)

	_, err = store.Resolve(context.Background(), "../secret.png")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, store.Delete(context.Background(), "../secret.png"))
	assert.Equal(t, "", store.URL(""))
}

func TestLocalStoreCancelled(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/api/files/")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Store(ctx, pngPayload("front.png"))
	assert.ErrorIs(t, err, context.Canceled)
}
