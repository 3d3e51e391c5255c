package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mobile-next/gesturerec/commands"
	"github.com/mobile-next/gesturerec/eventlog"
	"github.com/mobile-next/gesturerec/recorder"
	"github.com/mobile-next/gesturerec/utils"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Classify a recorded pointer-event log",
	Long: `Replays a JSON-lines pointer-event log through the gesture recorder and prints
the resulting actions. Reads from stdin when no file is given or the file is "-".

Output formats:
  json    the actions with timings in seconds
  plist   the same records as an XML property list
  script  a pointer action sequence (pointerMove, pointerDown, pause, pointerUp)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := "-"
		if len(args) == 1 {
			input = args[0]
		}

		actions, err := classifyInput(cmd.InOrStdin(), input)
		if err != nil {
			response := commands.NewErrorResponse(err)
			printJson(response)
			return fmt.Errorf("%s", response.Error)
		}

		return writeActions(cmd.OutOrStdout(), actions, classifyFormat)
	},
}

func classifyInput(stdin io.Reader, input string) ([]recorder.Action, error) {
	r := stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
		defer f.Close()
		r = f
	}

	events, err := eventlog.Decode(r)
	if err != nil {
		return nil, err
	}

	utils.Verbose("Replaying %d events from %s", len(events), input)
	return eventlog.Replay(events, appConfig.Recorder, eventlog.ReplayOptions{SkipInvalid: classifySkipInvalid})
}

func writeActions(w io.Writer, actions []recorder.Action, format string) error {
	switch format {
	case "json":
		return writeJson(w, commands.NewSuccessResponse(map[string]interface{}{
			"actions": actions,
		}))
	case "script":
		return writeJson(w, commands.NewSuccessResponse(map[string]interface{}{
			"actions": recorder.Script(actions, appConfig.Recorder),
		}))
	case "plist":
		data, err := utils.MarshalPlist(recorder.Records(actions))
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %s (expected json, plist or script)", format)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVarP(&classifyFormat, "format", "f", "json", "output format: json, plist or script")
	classifyCmd.Flags().BoolVar(&classifySkipInvalid, "skip-invalid", false, "skip events that arrive while nothing is recording instead of failing")
}
