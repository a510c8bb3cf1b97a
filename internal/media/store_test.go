package media

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestExt(t *testing.T) {
	cases := []struct {
		declared string
		name     string
		want     string
	}{
		{"image/jpeg", "", ".jpeg"},
		{"", "photo.jpg", ".jpeg"},
		{"", "photo.JPEG", ".jpeg"},
		{"image/png", "photo.png", ".png"},
		{"image/webp", "photo.webp", ".png"},
		{"", "", ".png"},
	}
	for _, tc := range cases {
		if got := Ext(tc.declared, tc.name); got != tc.want {
			t.Errorf("Ext(%q, %q) = %q, want %q", tc.declared, tc.name, got, tc.want)
		}
	}
}

func TestSaveOpenRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "photos"))
	data := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}

	name, path, err := store.Save("abc123", data, "image/png", "cut.png")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if name != "abc123.png" {
		t.Fatalf("unexpected file name %q", name)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("stored bytes differ from upload")
	}

	opened, ext, err := store.Open("abc123")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if opened != path || ext != ".png" {
		t.Fatalf("Open returned %q %q, want %q .png", opened, ext, path)
	}
}

func TestSaveReplacesOtherExtension(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, _, err := store.Save("s1", []byte("png-bytes"), "image/png", ""); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, _, err := store.Save("s1", []byte("jpeg-bytes"), "image/jpeg", ""); err != nil {
		t.Fatalf("second save: %v", err)
	}

	// The old .png must be gone, otherwise the probe order would keep
	// serving the stale image forever.
	if _, err := os.Stat(filepath.Join(store.Dir(), "s1.png")); !os.IsNotExist(err) {
		t.Fatalf("stale png still present, err=%v", err)
	}
	_, ext, err := store.Open("s1")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if ext != ".jpeg" {
		t.Fatalf("expected .jpeg after replacement, got %q", ext)
	}
}

func TestSaveOverwrite(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, _, err := store.Save("g1", []byte("old"), "image/png", ""); err != nil {
		t.Fatalf("first save: %v", err)
	}
	_, path, err := store.Save("g1", []byte("new"), "image/png", "")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "new" {
		t.Fatalf("expected overwrite, got %q", got)
	}
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single stored file, found %d", len(entries))
	}
}

func TestRemove(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, _, err := store.Save("x", []byte("data"), "image/png", ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Remove("x"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, _, err := store.Open("x"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	// Removing again is a no-op.
	if err := store.Remove("x"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestOpenMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, _, err := store.Open("nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContentType(t *testing.T) {
	if ContentType(".png") != "image/png" {
		t.Fatalf("png content type wrong")
	}
	if ContentType(".jpeg") != "image/jpeg" || ContentType(".jpg") != "image/jpeg" {
		t.Fatalf("jpeg content type wrong")
	}
}
