package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_clip/internal/engine"
)

var transcriptRaw bool

var transcriptCmd = &cobra.Command{
	Use:   "transcript [video-id|url]",
	Short: "Print a video's transcript",
	Long: `Fetches the transcript and prints it normalized and truncated to the
token budget the generation API receives. Use --raw to skip normalization.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscript,
}

func init() {
	transcriptCmd.Flags().BoolVar(&transcriptRaw, "raw", false, "print the transcript as fetched")
	rootCmd.AddCommand(transcriptCmd)
}

func runTranscript(cmd *cobra.Command, args []string) error {
	if fetcher == nil {
		return errors.New("transcript fetcher not configured")
	}
	id, err := engine.ValidateVideoID(videoArg(args[0]))
	if err != nil {
		return userError(err)
	}

	text, err := fetcher.FetchTranscript(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("fetch transcript: %w", err)
	}
	if !transcriptRaw {
		text = engine.Normalize(text, maxTokens)
	}
	cmd.Println(text)
	cmd.PrintErrf("%d tokens\n", engine.CountTokens(text))
	return nil
}
