package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is a locally selected file that has not been uploaded yet.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// NewFile builds a File from raw bytes. The content type is sniffed from the
// data; declared (and then the extension) is only used when sniffing finds
// nothing specific.
func NewFile(name, declared string, data []byte) File {
	return File{
		Name:        filepath.Base(name),
		ContentType: detectContentType(name, declared, data),
		Size:        int64(len(data)),
		Data:        data,
	}
}

// ReadFileIn loads name from inside rootDir. Relative names are taken from
// rootDir. Names that leave it, directly or through a symlink, are refused.
func ReadFileIn(rootDir, name string) (File, error) {
	if rootDir == "" {
		return File{}, ErrNoMediaRoot
	}
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return File{}, fmt.Errorf("resolving media root: %w", err)
	}

	rel := filepath.Clean(name)
	if filepath.IsAbs(rel) {
		if rel, err = filepath.Rel(rootDir, rel); err != nil {
			return File{}, fmt.Errorf("%w: %s", ErrOutsideRoot, name)
		}
	}
	if !filepath.IsLocal(rel) {
		return File{}, fmt.Errorf("%w: %s", ErrOutsideRoot, name)
	}

	root, err := os.OpenRoot(rootDir)
	if err != nil {
		return File{}, fmt.Errorf("opening media root: %w", err)
	}
	defer root.Close()

	f, err := root.Open(rel)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return File{}, fmt.Errorf("reading %s: not a regular file", name)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", name, err)
	}
	return NewFile(rel, "", data), nil
}

// DecodeFile builds a File from base64 content.
func DecodeFile(name, declared, encoded string) (File, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return File{}, fmt.Errorf("decoding %s: %w", name, err)
	}
	return NewFile(name, declared, data), nil
}

const genericType = "application/octet-stream"

func detectContentType(name, declared string, data []byte) string {
	declared = baseType(declared)
	if len(data) > 0 {
		mt := mimetype.Detect(data)
		if !mt.Is(genericType) {
			if declared != "" && mt.Is(declared) {
				return declared
			}
			return baseType(mt.String())
		}
	}
	if declared != "" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return baseType(byExt)
	}
	return genericType
}

func baseType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(contentType)
	}
	return mediaType
}
