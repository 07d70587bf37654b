package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/ssko7098/Harmonize/pkg/utils"
)

// MediaStore keeps uploaded blobs on local disk under a single root,
// split into per-kind subdirectories. Paths handed back are relative to
// the root so the root can move without rewriting rows.
type MediaStore struct {
	root string
}

// NewMediaStore ensures the root and its subdirectories exist.
func NewMediaStore(root string) (*MediaStore, error) {
	for _, dir := range []string{"songs", "covers"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to prepare media directory")
		}
	}
	return &MediaStore{root: root}, nil
}

// SaveMP3 writes an uploaded track under songs/. The stored name is a
// slug of the title plus a short random suffix so collisions cannot
// clobber another upload.
func (m *MediaStore) SaveMP3(title string, r io.Reader) (string, error) {
	return m.save("songs", title, ".mp3", r)
}

// SaveCover writes cover art under covers/, keeping the upload's
// extension.
func (m *MediaStore) SaveCover(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".jpg"
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return m.save("covers", base, ext, r)
}

func (m *MediaStore) save(kind, base, ext string, r io.Reader) (string, error) {
	name := slug.Make(base)
	if name == "" {
		name = "untitled"
	}
	rel := filepath.Join(kind, fmt.Sprintf("%s-%s%s", name, uuid.NewString()[:8], ext))

	f, err := os.Create(filepath.Join(m.root, rel))
	if err != nil {
		return "", utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to store media file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to write media file")
	}
	return rel, nil
}

// Open returns a reader for a stored blob.
func (m *MediaStore) Open(rel string) (*os.File, error) {
	f, err := os.Open(filepath.Join(m.root, rel))
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrNotFound.Code, "Media file not found")
	}
	return f, nil
}

// AbsPath resolves a stored relative path for serving.
func (m *MediaStore) AbsPath(rel string) string {
	return filepath.Join(m.root, rel)
}

// Remove deletes a stored blob. Removing a path that is already gone is
// not an error.
func (m *MediaStore) Remove(rel string) error {
	err := os.Remove(filepath.Join(m.root, rel))
	if err != nil && !os.IsNotExist(err) {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to remove media file")
	}
	return nil
}
