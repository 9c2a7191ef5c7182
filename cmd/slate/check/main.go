package check

import (
	"context"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/slatelang/slate/pkg/config"
	"github.com/slatelang/slate/pkg/frontend"
)

type Handler struct {
	configPath string
	tabWidth   int
}

func NewCheckCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "check [globs...]",
		Short: "type-check slate source files",
		Long: `Type-check every file matched by the given globs. With no
arguments the globs come from slate.hcl, falling back to **/*.sl.`,
	}

	cmd.Flags().StringVar(&me.configPath, "config", "", "path to the project file")
	cmd.Flags().IntVar(&me.tabWidth, "tab-width", 0, "override the tab width")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, globs []string) error {
	cfg, err := me.loadConfig()
	if err != nil {
		return err
	}

	if len(globs) == 0 {
		globs = cfg.SourceGlobs
	}

	tabWidth := cfg.TabWidth
	if me.tabWidth > 0 {
		tabWidth = me.tabWidth
	}

	checker := frontend.NewChecker(frontend.WithTabWidth(tabWidth))

	var merr *multierror.Error
	total := 0
	for _, glob := range globs {
		paths, err := checker.CheckGlob(ctx, glob)
		total += len(paths)
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return errors.Errorf("check failed: %w", err)
	}

	zerolog.Ctx(ctx).Info().Int("files", total).Msg("all files check out")
	return nil
}

// loadConfig reads the project file named by --config, or the default
// one when it exists. Built-in defaults apply otherwise.
func (me *Handler) loadConfig() (*config.Config, error) {
	if me.configPath != "" {
		return config.Load(me.configPath)
	}
	if _, err := os.Stat(config.DefaultFilename); err == nil {
		return config.Load(config.DefaultFilename)
	}
	return config.Default(), nil
}
