// Package files inspects local files chosen for sending: size, MIME type
// and a small JPEG preview for images.
package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/localdrop/localdrop/internal/model"
)

// DefaultMimeType is used when neither content nor extension identify a file.
const DefaultMimeType = "application/octet-stream"

// ErrIsDirectory is returned when a directory is selected.
var ErrIsDirectory = errors.New("cannot send a directory")

// sniffLen is how much of a file content sniffing looks at.
const sniffLen = 512

// NewUUID returns a fresh file_uuid.
func NewUUID() string {
	return uuid.NewString()
}

// Inspector builds SelectedFile entries.
type Inspector struct {
	logger   *slog.Logger
	previews bool
}

// NewInspector creates an Inspector. previews controls thumbnail generation.
func NewInspector(previews bool, logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inspector{logger: logger, previews: previews}
}

// Inspect describes the file at path. An empty fileUUID gets a new one.
// A preview that cannot be generated is omitted rather than failing.
func (i *Inspector) Inspect(path, fileUUID string) (model.SelectedFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return model.SelectedFile{}, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return model.SelectedFile{}, fmt.Errorf("failed to get metadata for %s: %w", filepath.Base(abs), err)
	}
	if info.IsDir() {
		return model.SelectedFile{}, fmt.Errorf("%w: %s", ErrIsDirectory, abs)
	}

	if fileUUID == "" {
		fileUUID = NewUUID()
	}

	f := model.SelectedFile{
		FileUUID: fileUUID,
		FilePath: abs,
		Name:     info.Name(),
		Size:     info.Size(),
		MimeType: DetectMimeType(abs),
	}

	if i.previews && strings.HasPrefix(f.MimeType, "image/") {
		preview, err := Thumbnail(abs)
		if err != nil {
			i.logger.Debug("no preview for image", "path", abs, "error", err)
		} else {
			f.PreviewBase64 = &preview
		}
	}

	return f, nil
}

// InspectAll inspects every path, returning the files that succeeded and
// the joined errors of those that did not.
func (i *Inspector) InspectAll(paths []string) ([]model.SelectedFile, error) {
	var out []model.SelectedFile
	var errs []error
	for _, p := range paths {
		f, err := i.Inspect(p, "")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, f)
	}
	return out, errors.Join(errs...)
}

// DetectMimeType sniffs the file content first, then falls back to the
// extension, then to DefaultMimeType.
func DetectMimeType(path string) string {
	if t := sniff(path); t != "" {
		return t
	}
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
		return t
	}
	return DefaultMimeType
}

// sniff returns the content-detected type, or "" when content sniffing
// only produced a generic answer.
func sniff(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return ""
	}
	if n == 0 {
		return ""
	}

	t := http.DetectContentType(buf[:n])
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	// Plain text and octet-stream are fallbacks, the extension knows better.
	if mediaType == DefaultMimeType || mediaType == "text/plain" {
		return ""
	}
	return mediaType
}
