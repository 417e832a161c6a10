package fs

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/screenshots"
)

func writeFiles(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))
	}
}

func TestLocator_ScanSortsByName(t *testing.T) {
	fsys := afero.NewMemMapFs()
	// created in reverse alphabetical order on purpose
	writeFiles(t, fsys, map[string]string{"/in/login.png": "L"})
	time.Sleep(time.Millisecond)
	writeFiles(t, fsys, map[string]string{"/in/dashboard.png": "DD"})
	writeFiles(t, fsys, map[string]string{"/in/b.png": "b", "/in/a.JPG": "a"})

	files, err := NewLocator(fsys, nil).Scan("/in")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.JPG", "b.png", "dashboard.png", "login.png"}, domain.Names(files))
	assert.Equal(t, filepath.Join("/in", "dashboard.png"), files[2].Path)
	assert.Equal(t, int64(2), files[2].Size)
	assert.False(t, files[2].ModifiedAt.IsZero())
}

func TestLocator_FiltersExtensions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/in/a.png":     "",
		"/in/b.gif":     "",
		"/in/notes.txt": "",
		"/in/c.jpeg":    "",
	})

	files, err := NewLocator(fsys, []string{".png", "JPEG"}).Scan("/in")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "c.jpeg"}, domain.Names(files))
}

func TestLocator_OnlyNonImagesIsEmptyInput(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/in/readme.md": "x", "/in/data.json": "{}"})
	require.NoError(t, fsys.MkdirAll("/in/nested.png", 0o755))

	files, err := NewLocator(fsys, nil).Scan("/in")
	assert.Nil(t, files)
	assert.True(t, errors.Is(err, domain.ErrEmptyInput), err)
}

func TestLocator_MissingDirectory(t *testing.T) {
	_, err := NewLocator(afero.NewMemMapFs(), nil).Scan("/nope")
	assert.True(t, errors.Is(err, domain.ErrInputNotFound), err)
}

func TestLocator_FileInsteadOfDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/in/a.png": ""})

	_, err := NewLocator(fsys, nil).Scan("/in/a.png")
	assert.True(t, errors.Is(err, domain.ErrInputNotFound), err)
}

func TestLocator_Recursive(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/in/z.png":          "",
		"/in/sub/a.png":      "",
		"/in/sub/deep/m.jpg": "",
		"/in/other/a.png":    "",
	})

	flat, err := NewLocator(fsys, nil).Scan("/in")
	require.NoError(t, err)
	assert.Equal(t, []string{"z.png"}, domain.Names(flat))

	all, err := NewLocator(fsys, nil).WithRecursive().Scan("/in")
	require.NoError(t, err)
	assert.Equal(t, []string{"other/a.png", "sub/a.png", "sub/deep/m.jpg", "z.png"}, domain.Names(all))
	assert.Equal(t, []string{"/in/other/a.png", "/in/sub/a.png", "/in/sub/deep/m.jpg", "/in/z.png"}, domain.Paths(all))
}
