package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-yadex/yadex/api"
	"github.com/go-yadex/yadex/config"
	"github.com/go-yadex/yadex/logger"
	"github.com/go-yadex/yadex/pkg/listing"
	"github.com/go-yadex/yadex/pkg/render"
	"github.com/go-yadex/yadex/pkg/sandbox"
	"github.com/spf13/cobra"
)

func Run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := config.Init(ctx, config.GetConfigFile(cmd)); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx, err := logger.Init(ctx)
	if err != nil {
		return err
	}
	l := log.FromContext(ctx)
	cfg := config.C()

	// Templates load before any sandboxing: the template files live
	// next to the config file, which may be outside every root.
	var templates *render.Templates
	if cfg.Service.TemplateIndex {
		templates, err = render.Load(nil, cfg.IndexFilePath(), cfg.ErrorFilePath())
		if err != nil {
			return err
		}
	}

	roots, err := setupRoots(ctx, cfg)
	if err != nil {
		return err
	}
	for _, r := range roots.All() {
		l.Info("serving document root", "prefix", r.Prefix(), "dir", r.Dir())
	}

	if err := api.Serve(ctx, api.Options{
		Roots:         roots,
		Scanner:       listing.NewScanner(nil),
		Templates:     templates,
		TemplateIndex: cfg.Service.TemplateIndex,
		JSONAPI:       cfg.Service.JSONAPI,
		Limit:         cfg.Service.Limit,
		RateLimit:     cfg.Network.RateLimit,
		Burst:         cfg.Network.Burst,
	}); err != nil {
		return err
	}
	l.Info("bye")
	return nil
}

// setupRoots applies the configured sandboxing and builds the root
// registry. With chroot enabled the single configured root becomes
// the filesystem root, so the registry is built after the switch.
func setupRoots(ctx context.Context, cfg *config.Config) (*listing.Roots, error) {
	opts := sandbox.Options{
		Chroot:   cfg.Service.Chroot,
		Landlock: cfg.Service.Security == "landlock",
	}
	if opts.Chroot {
		if len(cfg.Roots) != 1 {
			return nil, fmt.Errorf("service.chroot requires exactly one [[roots]] entry, got %d", len(cfg.Roots))
		}
		dir, err := filepath.Abs(cfg.Roots[0].Path)
		if err != nil {
			return nil, err
		}
		opts.ChrootDir = dir
		opts.ReadOnlyPaths = []string{"/"}
	} else {
		for _, r := range cfg.Roots {
			opts.ReadOnlyPaths = append(opts.ReadOnlyPaths, r.Path)
		}
	}
	if err := sandbox.Apply(ctx, opts); err != nil {
		return nil, err
	}

	var roots []listing.Root
	if opts.Chroot {
		r, err := listing.NewRoot(cfg.Roots[0].Prefix, "/")
		if err != nil {
			return nil, err
		}
		roots = append(roots, r)
	} else {
		for _, rc := range cfg.Roots {
			r, err := listing.NewRoot(rc.Prefix, rc.Path)
			if err != nil {
				return nil, err
			}
			roots = append(roots, r)
		}
	}
	return listing.NewRoots(roots...)
}
