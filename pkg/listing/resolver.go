package listing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"
)

// Root maps a URL prefix to a document root on disk. The directory is
// canonicalized once at construction; Resolve never hands out a path
// outside of it.
type Root struct {
	prefix string
	dir    string
}

// NewRoot canonicalizes dir (absolute, symlinks resolved) and
// normalizes prefix to a rooted URL path without a trailing slash.
func NewRoot(prefix, dir string) (Root, error) {
	prefix = path.Clean("/" + prefix)
	if prefix != "/" {
		prefix = strings.TrimSuffix(prefix, "/")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Root{}, fmt.Errorf("resolve root %q: %w", dir, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Root{}, fmt.Errorf("resolve root %q: %w", dir, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return Root{}, fmt.Errorf("stat root %q: %w", dir, err)
	}
	if !info.IsDir() {
		return Root{}, fmt.Errorf("root %q is not a directory", dir)
	}
	return Root{prefix: prefix, dir: canonical}, nil
}

// Prefix returns the URL prefix this root is served under.
func (r Root) Prefix() string { return r.prefix }

// Dir returns the canonical directory this root points at.
func (r Root) Dir() string { return r.dir }

// Resolved is a validated filesystem location plus the URL prefix
// (trailing slash included) that entry hrefs are built from.
type Resolved struct {
	FSPath     string
	HrefPrefix string
}

// Resolve turns a client-supplied path, relative to the root's prefix,
// into a canonical directory location inside the root.
//
// The containment check runs twice: once lexically on the cleaned join
// (so `..` escapes fail before touching the filesystem) and once on
// the symlink-resolved path, so a symlink inside the root cannot point
// the listing outside of it.
func (r Root) Resolve(requested string) (Resolved, error) {
	if strings.ContainsRune(requested, 0) || !utf8.ValidString(requested) {
		return Resolved{}, ErrInvalidPath
	}

	joined := filepath.Join(r.dir, filepath.FromSlash(requested))
	if !r.contains(joined) {
		return Resolved{}, ErrPathOutOfRoot
	}

	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return Resolved{}, classifyFsError(err)
	}
	if !r.contains(canonical) {
		return Resolved{}, ErrPathOutOfRoot
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return Resolved{}, classifyFsError(err)
	}
	if !info.IsDir() {
		return Resolved{}, ErrNotADirectory
	}

	href := path.Join(r.prefix, path.Clean("/"+requested))
	if href != "/" {
		href += "/"
	}
	return Resolved{FSPath: canonical, HrefPrefix: href}, nil
}

func (r Root) contains(p string) bool {
	return p == r.dir || strings.HasPrefix(p, r.dir+string(filepath.Separator))
}

func classifyFsError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	case errors.Is(err, syscall.ENOTDIR):
		return ErrNotADirectory
	default:
		return fmt.Errorf("filesystem error: %w", err)
	}
}
