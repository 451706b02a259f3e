// Package sandbox confines the process to the configured document
// roots before the server starts accepting requests.
package sandbox

// Options describes the confinement to apply. Chroot swaps the
// process root for ChrootDir; Landlock drops filesystem access down
// to read-only on ReadOnlyPaths. Both run once, before serving, and
// cannot be undone.
type Options struct {
	Chroot        bool
	ChrootDir     string
	Landlock      bool
	ReadOnlyPaths []string
}
