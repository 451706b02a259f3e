//go:build linux

package sandbox

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/landlock-lsm/go-landlock/landlock"
)

func Apply(ctx context.Context, opts Options) error {
	logger := log.FromContext(ctx)

	if opts.Chroot {
		if err := syscall.Chroot(opts.ChrootDir); err != nil {
			return fmt.Errorf("chroot into %s: %w", opts.ChrootDir, err)
		}
		if err := os.Chdir("/"); err != nil {
			return fmt.Errorf("chdir into new root: %w", err)
		}
		logger.Info("chrooted", "dir", opts.ChrootDir)
	}

	if opts.Landlock {
		if err := landlock.V5.BestEffort().RestrictPaths(landlock.RODirs(opts.ReadOnlyPaths...)); err != nil {
			return fmt.Errorf("apply landlock rules: %w", err)
		}
		logger.Info("landlock restrictions applied", "paths", opts.ReadOnlyPaths)
	}
	return nil
}
