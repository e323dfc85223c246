package files

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{100, 50, 100, 50},
		{400, 200, 200, 100},
		{200, 800, 50, 200},
		{1000, 1, 200, 1},
		{0, 10, 1, 1},
	}
	for _, tt := range tests {
		w, h := fitWithin(tt.w, tt.h, 200)
		assert.Equal(t, tt.wantW, w, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, h, "%dx%d", tt.w, tt.h)
	}
}

func TestThumbnail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	writePNG(t, path, 640, 320)

	encoded, err := Thumbnail(path)
	require.NoError(t, err)

	data, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestThumbnail_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not png"), 0644))

	_, err := Thumbnail(path)
	assert.Error(t, err)
}

func TestInspect_Image(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	writePNG(t, path, 32, 16)

	f, err := NewInspector(true, nil).Inspect(path, "fixed-uuid")
	require.NoError(t, err)

	assert.Equal(t, "fixed-uuid", f.FileUUID)
	assert.Equal(t, path, f.FilePath)
	assert.Equal(t, "photo.png", f.Name)
	assert.Equal(t, "image/png", f.MimeType)
	assert.True(t, f.HasPreview())
	assert.Nil(t, f.Progress)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), f.Size)

	noPreview, err := NewInspector(false, nil).Inspect(path, "")
	require.NoError(t, err)
	assert.False(t, noPreview.HasPreview())
	assert.Len(t, noPreview.FileUUID, 36)
}

func TestInspect_BrokenImageHasNoPreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	// PNG signature followed by garbage: sniffed as image/png but undecodable.
	require.NoError(t, os.WriteFile(path, append([]byte("\x89PNG\r\n\x1a\n"), []byte("garbage")...), 0644))

	f, err := NewInspector(true, nil).Inspect(path, "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.MimeType)
	assert.False(t, f.HasPreview())
}

func TestInspect_Errors(t *testing.T) {
	i := NewInspector(true, nil)

	_, err := i.Inspect(filepath.Join(t.TempDir(), "missing.txt"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = i.Inspect(t.TempDir(), "")
	assert.ErrorIs(t, err, ErrIsDirectory)
}

func TestInspectAll(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(good, []byte("hello"), 0644))

	files, err := NewInspector(false, nil).InspectAll([]string{good, filepath.Join(dir, "nope")})
	assert.Error(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, int64(5), files[0].Size)
}

func TestDetectMimeType(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, data, 0644))
		return p
	}

	assert.Equal(t, "application/pdf", DetectMimeType(write("doc.bin", []byte("%PDF-1.7 rest"))))
	assert.Equal(t, "application/zip", DetectMimeType(write("archive.zip", []byte("PK\x03\x04rest"))))
	assert.Equal(t, "text/html", DetectMimeType(write("page.html", []byte("plain words"))), "text falls back to extension")
	assert.Equal(t, DefaultMimeType, DetectMimeType(write("blob.unknownext", []byte{0x00, 0x01, 0x02})))
	assert.Equal(t, DefaultMimeType, DetectMimeType(write("empty", nil)))
}
