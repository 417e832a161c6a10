package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/screenshots"
)

// Locator finds screenshots in a directory. Every call site shares one policy:
// a missing directory or a directory without images is an error.
type Locator struct {
	FS         afero.Fs
	Extensions []string
	Recursive  bool
}

// NewLocator returns a locator over fsys accepting the given extensions (with or without dot).
// An empty list means screenshots.DefaultExtensions.
func NewLocator(fsys afero.Fs, extensions []string) *Locator {
	if len(extensions) == 0 {
		extensions = domain.DefaultExtensions
	}
	return &Locator{FS: fsys, Extensions: extensions}
}

// WithRecursive returns a copy that walks sub-directories too
func (l *Locator) WithRecursive() *Locator {
	cp := *l
	cp.Recursive = true
	return &cp
}

// Scan returns the images in dir sorted by file name.
// A recursive scan names each file by its slash-separated path below dir,
// so screenshots sharing a base name in different folders stay distinct.
func (l *Locator) Scan(dir string) ([]domain.ImageFileInfo, error) {
	st, err := l.FS.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInputNotFound, dir)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInputNotFound, dir)
	}

	allowed := l.allowed()
	var files []domain.ImageFileInfo
	collect := func(path string, info fs.FileInfo) {
		if !info.Mode().IsRegular() {
			return
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(info.Name()), "."))
		if _, ok := allowed[ext]; !ok {
			return
		}
		name := info.Name()
		if l.Recursive {
			if rel, err := filepath.Rel(dir, path); err == nil {
				name = filepath.ToSlash(rel)
			}
		}
		files = append(files, domain.ImageFileInfo{
			Name:       name,
			Path:       path,
			Size:       info.Size(),
			CreatedAt:  info.ModTime(),
			ModifiedAt: info.ModTime(),
		})
	}

	if l.Recursive {
		err = afero.Walk(l.FS, dir, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			collect(path, info)
			return nil
		})
	} else {
		var entries []fs.FileInfo
		entries, err = afero.ReadDir(l.FS, dir)
		for _, e := range entries {
			collect(filepath.Join(dir, e.Name()), e)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", domain.ErrEmptyInput, dir)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Name != files[j].Name {
			return files[i].Name < files[j].Name
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

func (l *Locator) allowed() map[string]struct{} {
	m := make(map[string]struct{}, len(l.Extensions))
	for _, e := range l.Extensions {
		m[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))] = struct{}{}
	}
	return m
}
