// Package filesystem provides a connector that reads documents from a
// local directory tree.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// fallbackMIMETypes maps extensions the platform mime database may not
// know (or may disagree on) to stable types. Checked before the mime
// package so detection is deterministic across platforms.
var fallbackMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".csv":      "text/csv",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Connector reads raw documents from a directory tree.
// Hidden files and directories (dot-prefixed) are skipped.
type Connector struct {
	rootPath string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a filesystem connector rooted at rootPath.
// The path is not validated here; Validate or the sync operations
// report problems with it.
func New(rootPath string) *Connector {
	return &Connector{
		rootPath: rootPath,
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "filesystem"
}

// Capabilities returns what this connector supports.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsWatch:      true,
		SupportsValidation: true,
	}
}

// Validate checks that the root path exists and is a directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.checkRoot()
}

// FullSync walks the directory tree and emits every visible file.
// Both channels close when the walk finishes or the context is cancelled.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		if err := c.checkRoot(); err != nil {
			errs <- err
			return
		}

		walkErr := filepath.WalkDir(c.rootPath, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			if d.IsDir() {
				// Skip hidden directories entirely, but never the root
				// itself (a corpus may live under a dot directory).
				if path != c.rootPath && c.isHiddenPath(path) {
					return filepath.SkipDir
				}
				return nil
			}

			if c.isHiddenPath(path) {
				return nil
			}

			doc, err := c.readDocument(path)
			if err != nil {
				logger.Warn("Skipping unreadable file %s: %v", path, err)
				return nil
			}

			select {
			case docs <- *doc:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		if walkErr != nil && !isContextErr(walkErr) {
			errs <- fmt.Errorf("walking %s: %w", c.rootPath, walkErr)
		}
	}()

	return docs, errs
}

// Watch emits a change event for every create, write, remove or rename
// under the root until the context is cancelled. New subdirectories are
// picked up as they appear.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("connector is closed")
	}
	c.mu.Unlock()

	if err := c.checkRoot(); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the root and every visible subdirectory. fsnotify does not
	// recurse on its own.
	err = filepath.WalkDir(c.rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != c.rootPath && c.isHiddenPath(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", c.rootPath, err)
	}

	c.mu.Lock()
	c.watcher = watcher
	c.mu.Unlock()

	changes := make(chan domain.RawDocumentChange)

	go func() {
		defer close(changes)
		defer func() {
			c.mu.Lock()
			if c.watcher == watcher {
				c.watcher = nil
			}
			c.mu.Unlock()
			watcher.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// Newly created directories need their own watch.
				if event.Op.Has(fsnotify.Create) {
					if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
						if !c.isHiddenPath(event.Name) {
							if addErr := watcher.Add(event.Name); addErr != nil {
								logger.Debug("Failed to watch new directory %s: %v", event.Name, addErr)
							}
						}
						continue
					}
				}

				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}

				select {
				case changes <- *change:
				case <-ctx.Done():
					return
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

// Close stops any active watcher. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

// handleFsEvent maps a filesystem event to a document change.
// Returns nil for events that should not trigger indexing: directories,
// hidden files and attribute-only changes.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	if c.isHiddenPath(event.Name) {
		return nil
	}

	// Remove and rename are checked first: the file is already gone,
	// so only the URI is known.
	if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		return &domain.RawDocumentChange{
			Type: domain.ChangeDeleted,
			Document: domain.RawDocument{
				URI: event.Name,
			},
		}
	}

	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		logger.Debug("Stat failed for event %s: %v", event.Name, err)
		return nil
	}
	if info.IsDir() {
		return nil
	}

	doc, err := c.readDocument(event.Name)
	if err != nil {
		logger.Warn("Failed to read changed file %s: %v", event.Name, err)
		return nil
	}

	changeType := domain.ChangeUpdated
	if event.Op.Has(fsnotify.Create) {
		changeType = domain.ChangeCreated
	}

	return &domain.RawDocumentChange{
		Type:     changeType,
		Document: *doc,
	}
}

// readDocument reads one file into a raw document.
func (c *Connector) readDocument(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	extension := strings.TrimPrefix(filepath.Ext(filename), ".")

	return &domain.RawDocument{
		URI:      path,
		MIMEType: detectMIMEType(filename),
		Content:  content,
		Metadata: map[string]any{
			"filename":    filename,
			"extension":   extension,
			"size":        info.Size(),
			"modified_at": info.ModTime(),
		},
	}, nil
}

// checkRoot verifies the root path exists and is a directory.
func (c *Connector) checkRoot() error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path %s does not exist", c.rootPath)
		}
		return fmt.Errorf("accessing %s: %w", c.rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", c.rootPath)
	}
	return nil
}

// detectMIMEType resolves a MIME type from the file extension.
// Files without an extension are treated as plain text; unknown
// extensions fall back to application/octet-stream.
func detectMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "text/plain"
	}

	if mimeType, ok := fallbackMIMETypes[ext]; ok {
		return mimeType
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}

	// Strip parameters such as "; charset=utf-8".
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}

// isHiddenPath checks hidden status relative to the connector root, so
// a corpus living under a dot directory is not skipped wholesale.
func (c *Connector) isHiddenPath(path string) bool {
	rel, err := filepath.Rel(c.rootPath, path)
	if err != nil {
		return isHidden(path)
	}
	return isHidden(rel)
}

// isHidden reports whether any component of the path is dot-prefixed.
// The current and parent directory entries do not count.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// isContextErr reports whether err is a context cancellation.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
