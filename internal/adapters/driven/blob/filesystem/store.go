// Package filesystem serves prospectus files from a local directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
	"github.com/custodia-labs/unisearch/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.BlobStore   = (*Store)(nil)
	_ driven.BlobWatcher = (*Store)(nil)
)

// MaxFileSize bounds how much of a single file is read.
const MaxFileSize = 50 << 20

// Store reads blobs from files under a root directory.
// Blob names are slash-separated paths relative to the root. Hidden files are ignored.
type Store struct {
	root string
}

// New creates a store rooted at dir, creating the directory if needed.
// If dir is empty, defaults to ~/.unisearch/files.
func New(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".unisearch", "files")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve blob directory: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the directory blobs are read from.
func (s *Store) Root() string {
	return s.root
}

// Fetch reads a blob by name.
func (s *Store) Fetch(ctx context.Context, name string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, name)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrInvalidInput, name, MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return &domain.RawDocument{
		Name:     filepath.ToSlash(name),
		MIMEType: detectMIMEType(path),
		Content:  content,
	}, nil
}

// Put writes content under name through a temporary file and a rename,
// so a watcher never sees a partial file.
func (s *Store) Put(ctx context.Context, name string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(content) > MaxFileSize {
		return fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrInvalidInput, name, MaxFileSize)
	}
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create directory for %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	logger.Debug("Stored %s (%d bytes)", name, len(content))
	return nil
}

// List returns every visible file under the root, sorted by name.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == s.root {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if isHidden(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			names = append(names, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}

	sort.Strings(names)
	return names, nil
}

// Watch reports file changes under the root until ctx is cancelled.
// Subdirectories are watched too, including ones created later.
// Renames are reported as deletions of the old name.
func (s *Store) Watch(ctx context.Context) (<-chan domain.BlobChange, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if _, err := s.watchTree(watcher, s.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.root, err)
	}

	changes := make(chan domain.BlobChange)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				pending := s.newDirChanges(watcher, event)
				if change, ok := s.handleFsEvent(event); ok {
					pending = append(pending, change)
				}
				for _, change := range pending {
					select {
					case changes <- change:
					case <-ctx.Done():
						return
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// watchTree adds dir and every visible directory below it to the watcher.
// It returns the files found on the way.
func (s *Store) watchTree(watcher *fsnotify.Watcher, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != s.root {
			rel, err := filepath.Rel(s.root, path)
			if err != nil {
				return err
			}
			if isHidden(rel) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				files = append(files, filepath.ToSlash(rel))
				return nil
			}
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
	return files, err
}

// newDirChanges starts watching a directory that appeared under the root.
// Files already inside it are reported as created, since they may have been
// written before the watch was in place.
func (s *Store) newDirChanges(watcher *fsnotify.Watcher, event fsnotify.Event) []domain.BlobChange {
	if !event.Has(fsnotify.Create) {
		return nil
	}
	rel, err := filepath.Rel(s.root, event.Name)
	if err != nil || isHidden(rel) {
		return nil
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return nil
	}

	files, err := s.watchTree(watcher, event.Name)
	if err != nil {
		logger.Warn("Watching %s failed: %v", rel, err)
	}
	changes := make([]domain.BlobChange, 0, len(files))
	for _, name := range files {
		changes = append(changes, domain.BlobChange{Type: domain.ChangeCreated, Name: name})
	}
	return changes
}

// handleFsEvent maps an fsnotify event to a blob change. Directories, hidden
// files and attribute changes are skipped.
func (s *Store) handleFsEvent(event fsnotify.Event) (domain.BlobChange, bool) {
	rel, err := filepath.Rel(s.root, event.Name)
	if err != nil || isHidden(rel) {
		return domain.BlobChange{}, false
	}
	name := filepath.ToSlash(rel)

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return domain.BlobChange{Type: domain.ChangeDeleted, Name: name}, true
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return domain.BlobChange{}, false
		}
		if event.Has(fsnotify.Create) {
			return domain.BlobChange{Type: domain.ChangeCreated, Name: name}, true
		}
		return domain.BlobChange{Type: domain.ChangeUpdated, Name: name}, true
	default:
		return domain.BlobChange{}, false
	}
}

// resolve maps a blob name to a path inside the root.
func (s *Store) resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: invalid blob name %q", domain.ErrInvalidInput, name)
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: blob name %q escapes the root", domain.ErrInvalidInput, name)
	}
	return filepath.Join(s.root, clean), nil
}

// mimeFallbacks covers extensions the platform MIME table may not know.
var mimeFallbacks = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".pdf":      "application/pdf",
	".html":     "text/html",
	".htm":      "text/html",
}

// detectMIMEType guesses the content type from the file extension.
func detectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "text/plain"
	}
	if m, ok := mimeFallbacks[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		if i := strings.IndexByte(m, ';'); i >= 0 {
			m = strings.TrimSpace(m[:i])
		}
		return m
	}
	return "application/octet-stream"
}

// isHidden reports whether any element of path starts with a dot. "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
