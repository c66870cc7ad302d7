package commands

import (
	"os"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/notebuilder/pkg/app"
	"tableflip.dev/notebuilder/pkg/commands/options"
	"tableflip.dev/notebuilder/pkg/store"
)

var (
	lo = &options.LogOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "notebuilder",
		Short: base.Wrap80("Build clinical note templates out of ordered, typed sections."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddLogArgs(cmd, lo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addTemplate(topLevel)
	addSection(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// loadService reads the config and opens the diskv store behind a service.
func loadService() (*app.Service, store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := lo.Logger(os.Stderr)
	p, err := store.Load(cfg, store.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return &app.Service{
		Persistence: p,
		Logger:      logger,
		CopySuffix:  cfg.CopySuffix(),
	}, cfg, nil
}
