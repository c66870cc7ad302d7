package options

import (
	"github.com/spf13/cobra"
)

// TransferOptions
type TransferOptions struct {
	Format string
	File   string
	Name   string
}

func AddExportArgs(cmd *cobra.Command, o *TransferOptions) {
	cmd.Flags().StringVar(&o.Format, "format", "yaml",
		"Output format. One of 'yaml' or 'json'.")
	cmd.Flags().StringVarP(&o.File, "output", "o", "",
		"Write to this file instead of stdout.")
}

func AddImportArgs(cmd *cobra.Command, o *TransferOptions) {
	cmd.Flags().StringVar(&o.Format, "format", "",
		"Input format. One of 'yaml' or 'json'; defaults to the file extension.")
	cmd.Flags().StringVar(&o.Name, "name", "",
		"Store the template under this name instead of the one in the file.")
}
