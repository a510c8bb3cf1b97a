package media

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("image not found")

// probeOrder is the lookup order for serving: the newest upload always
// lands on .png or .jpeg, .jpg only survives from older deployments.
var probeOrder = []string{".png", ".jpeg", ".jpg"}

// Store keeps one image file per owning entity under a single directory,
// named by the entity id plus an extension derived from the upload. The
// directory is the only state; paths are pure functions of the id.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Ext picks the stored extension from the declared content type or the
// original filename. JPEG inputs keep a .jpeg suffix, everything else
// is stored as .png, matching what browsers uploaded historically.
func Ext(declaredType, fileName string) string {
	declaredType = strings.ToLower(declaredType)
	lower := strings.ToLower(fileName)
	if declaredType == "image/jpeg" || strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
		return ".jpeg"
	}
	return ".png"
}

func (s *Store) path(id, ext string) string {
	return filepath.Join(s.dir, id+ext)
}

// Save writes the full buffer for the entity and returns the stored
// file name. Any previously stored file for the id is removed first so
// a re-upload under a different type cannot leave a stale sibling; the
// write itself goes through a temp file and rename so readers never see
// a partial image.
func (s *Store) Save(id string, data []byte, declaredType, fileName string) (string, string, error) {
	if id == "" {
		return "", "", errors.New("empty entity id")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", err
	}
	if err := s.Remove(id); err != nil {
		return "", "", err
	}

	name := id + Ext(declaredType, fileName)
	target := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, id+".upload-*")
	if err != nil {
		return "", "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", "", err
	}
	return name, target, nil
}

// Open probes the known extensions in order and returns the path and
// extension of the first match.
func (s *Store) Open(id string) (string, string, error) {
	for _, ext := range probeOrder {
		p := s.path(id, ext)
		if _, err := os.Stat(p); err == nil {
			return p, ext, nil
		} else if !os.IsNotExist(err) {
			return "", "", err
		}
	}
	return "", "", ErrNotFound
}

// Remove deletes every stored variant for the id. Removing an id that
// has no image is not an error.
func (s *Store) Remove(id string) error {
	for _, ext := range probeOrder {
		if err := os.Remove(s.path(id, ext)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// ContentType maps a stored extension to the serving content type.
func ContentType(ext string) string {
	if ext == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}
