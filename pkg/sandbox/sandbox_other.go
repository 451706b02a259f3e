//go:build !linux

package sandbox

import (
	"context"
	"fmt"
)

func Apply(_ context.Context, opts Options) error {
	if opts.Chroot || opts.Landlock {
		return fmt.Errorf("sandboxing (chroot, landlock) is only supported on linux")
	}
	return nil
}
