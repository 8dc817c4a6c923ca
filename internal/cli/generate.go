package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_clip/internal/clipserver"
)

var (
	generateImage string
	generateJSON  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [video-id|url]",
	Short: "Generate a clip from a video and a reference image",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateImage, "image", "i", "", "reference image URL (required)")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output result as JSON")
	_ = generateCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	if runner == nil {
		return errors.New("pipeline not configured")
	}

	res, err := runner.Run(cmd.Context(), videoArg(args[0]), generateImage)
	if err != nil {
		slog.Debug("generate failed", slog.Any("error", err))
		return userError(err)
	}

	if generateJSON {
		data, err := json.MarshalIndent(clipserver.GenerateClipOutput{Result: res.Content, RunID: res.RunID}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Println(res.Content)
	return nil
}
