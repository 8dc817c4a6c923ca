package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_clip/internal/toolutil"
)

var scriptCmd = &cobra.Command{
	Use:   "script [video-id|url]",
	Short: "Draft a short clip script from a video's transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runner == nil {
			return errors.New("pipeline not configured")
		}
		script, err := runner.Script(cmd.Context(), videoArg(args[0]))
		if err != nil {
			return errors.New(toolutil.ScriptMessage(err))
		}
		cmd.Println(script)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scriptCmd)
}
