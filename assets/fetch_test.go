package assets_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/assets"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetcher_HTTP(t *testing.T) {
	t.Helper()
	data := pngBytes(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	f := assets.NewFetcher(assets.WithRateLimit(0, 0))

	got, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	require.ErrorIs(t, err, deckforge.ErrImageUnavailable)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetcher_MaxBytes(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	f := assets.NewFetcher(assets.WithMaxBytes(16))
	_, err := f.Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, deckforge.ErrImageUnavailable)
}

func TestFetcher_DataURI(t *testing.T) {
	t.Helper()
	data := pngBytes(t)
	f := assets.NewFetcher()

	got, err := f.Fetch(context.Background(), "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = f.Fetch(context.Background(), "data:image/png;base64")
	require.ErrorIs(t, err, deckforge.ErrImageUnavailable)
}

func TestFetcher_LocalFiles(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o600))

	got, err := assets.NewFetcher().Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.NotEmpty(t, got)

	_, err = assets.NewFetcher(assets.WithLocalFiles(false)).Fetch(context.Background(), path)
	require.ErrorIs(t, err, deckforge.ErrImageUnavailable)
	assert.Contains(t, err.Error(), assets.ErrLocalFilesDisabled.Error())
}

func TestFetcher_CanceledContext(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := assets.NewFetcher().Fetch(ctx, "http://127.0.0.1:1/never")
	require.ErrorIs(t, err, deckforge.ErrImageUnavailable)
}

type mapSource map[string][]byte

func (m mapSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	if d, ok := m[ref]; ok {
		return d, nil
	}
	return nil, deckforge.ErrImageUnavailable
}

func TestLoader(t *testing.T) {
	t.Helper()
	var gifBuf bytes.Buffer
	pal := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White})
	require.NoError(t, gif.Encode(&gifBuf, pal, nil))

	src := mapSource{"png": pngBytes(t), "gif": gifBuf.Bytes(), "junk": []byte("not an image")}
	var failures []string
	l := assets.NewLoader(src,
		assets.WithCache(assets.NewCache(1<<20)),
		assets.OnFailure(func(ref string, _ error) { failures = append(failures, ref) }),
	)

	img, err := l.Load(context.Background(), "png")
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	e, err := l.Embeddable(context.Background(), "gif")
	require.NoError(t, err)
	assert.Equal(t, "png", e.Ext)
	assert.Equal(t, 4, e.Width)

	e, err = l.Embeddable(context.Background(), "png")
	require.NoError(t, err)
	assert.Equal(t, src["png"], e.Data)

	_, err = l.Load(context.Background(), "junk")
	require.ErrorIs(t, err, deckforge.ErrImageUnavailable)
	_, err = l.Load(context.Background(), "absent")
	require.Error(t, err)
	assert.Equal(t, []string{"junk", "absent"}, failures)
}

func TestCache_Evicts(t *testing.T) {
	t.Helper()
	c := assets.NewCache(10)
	c.Put("a", make([]byte, 4))
	c.Put("b", make([]byte, 4))
	_, _ = c.Get("a")
	c.Put("c", make([]byte, 4))

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.True(t, okA)
	assert.False(t, okB, "least recently used entry should be evicted")
	assert.Equal(t, 2, c.Len())

	c.Put("huge", make([]byte, 11))
	_, ok := c.Get("huge")
	assert.False(t, ok)
}
