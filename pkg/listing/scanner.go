package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Scanner enumerates the immediate children of a resolved directory.
// It holds no state between calls and is safe for concurrent use; the
// filesystem is injected so tests can run against a synthetic root.
type Scanner struct {
	fs afero.Fs
}

func NewScanner(fsys afero.Fs) *Scanner {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Scanner{fs: fsys}
}

// Scan reads up to limit entries from loc in filesystem enumeration
// order. MaybeTruncated reports whether the directory held strictly
// more than limit entries; which subset survives a truncated scan is
// whatever the filesystem yielded first.
//
// A child whose metadata cannot be read is skipped, not fatal: a file
// removed mid-scan or an unreadable entry must not take down the whole
// listing. Only failure to open the directory itself aborts the call.
func (s *Scanner) Scan(ctx context.Context, loc Resolved, limit int) (Result, error) {
	if limit <= 0 {
		return Result{}, fmt.Errorf("scan limit must be positive, got %d", limit)
	}

	dir, err := s.fs.Open(loc.FSPath)
	if err != nil {
		return Result{}, classifyFsError(err)
	}
	defer dir.Close()

	// One extra name distinguishes "exactly limit" from "more than
	// limit" without reading the whole directory.
	names, err := dir.Readdirnames(limit + 1)
	if err != nil && !errors.Is(err, io.EOF) {
		return Result{}, classifyFsError(err)
	}
	truncated := len(names) > limit
	if truncated {
		names = names[:limit]
	}

	logger := log.FromContext(ctx)
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		info, err := s.stat(filepath.Join(loc.FSPath, name))
		if err != nil {
			logger.Debug("skipping unreadable entry", "name", name, "err", err)
			continue
		}
		entries = append(entries, newEntry(loc.HrefPrefix, name, info))
	}
	return Result{Entries: entries, MaybeTruncated: truncated}, nil
}

// stat prefers lstat so a dangling symlink still shows up in the
// listing instead of being dropped.
func (s *Scanner) stat(p string) (os.FileInfo, error) {
	if lstater, ok := s.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(p)
		return info, err
	}
	return s.fs.Stat(p)
}

func newEntry(hrefPrefix, name string, info os.FileInfo) Entry {
	href := hrefPrefix + url.PathEscape(name)
	if info.IsDir() {
		href += "/"
	}
	return Entry{
		Name:     name,
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		Href:     href,
		Datetime: info.ModTime().Unix(),
	}
}
