package options

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions
type OutputOptions struct {
	JSON   bool
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

func AddShowIDArgs(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVarP(&po.ShowID, "show-id", "k", false,
		"Show the ID of each section.")
}

func (o *OutputOptions) Writer() io.Writer {
	if o.Out == nil {
		return color.Output
	}
	return o.Out
}

// HandleError prints err as {"error": ...} in JSON mode and swallows it so
// the exit status stays zero for scripted callers.
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		b, merr := json.Marshal(map[string]string{"error": err.Error()})
		if merr != nil {
			return merr
		}
		_, _ = fmt.Fprintln(o.Writer(), string(b))
		return nil
	}
	return err
}

// PrintJSON writes v as indented JSON.
func (o *OutputOptions) PrintJSON(v any) error {
	enc := json.NewEncoder(o.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
