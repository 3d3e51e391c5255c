package cli

var (
	verbose bool

	// root persistent flags
	configPath string
	logFile    string

	// for devices command
	showAllDevices bool

	// for classify command
	classifyFormat      string
	classifySkipInvalid bool
)
