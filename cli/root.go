package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mobile-next/gesturerec/commands"
	"github.com/mobile-next/gesturerec/config"
	"github.com/mobile-next/gesturerec/utils"
	"github.com/spf13/cobra"
)

const version = "dev"

// appConfig is the configuration loaded before any command runs
var appConfig = config.Default()

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gesturerec",
	Short: "Record pointer input on a mirrored device as click, drag, swipe and delay actions",
	Long: `A tool that classifies pointer input on a mirrored iOS or Android screen into
an ordered list of clicks, drags, swipes and the delays between them.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func loadConfig(cmd *cobra.Command, args []string) error {
	utils.SetVerbose(verbose)

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	appConfig = cfg

	// the flag wins over the config file
	target := appConfig.LogFile
	if logFile != "" {
		target = logFile
	}
	if target != "" {
		closer := utils.SetLogFile(target)
		commands.RegisterShutdown("log-file", closer.Close)
	}

	utils.Verbose("Loaded configuration from %s", path)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", fmt.Sprintf("config file (default %s)", config.DefaultPath()))
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file instead of stderr")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	if err := writeJson(os.Stdout, data); err != nil {
		utils.Logger().Fatal(err)
	}
}

func writeJson(w io.Writer, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
