package cli

import (
	"flag"
	"fmt"

	"quadterm/internal/logging"
)

const (
	defaultHelpDesc    = "Show help"
	defaultVersionDesc = "Print version and exit"
)

type HelpVersionFlags struct {
	Help    bool
	Version bool
}

func AddHelpVersionFlags(fs *flag.FlagSet, helpDesc, versionDesc string) *HelpVersionFlags {
	if fs == nil {
		return &HelpVersionFlags{}
	}
	if helpDesc == "" {
		helpDesc = defaultHelpDesc
	}
	if versionDesc == "" {
		versionDesc = defaultVersionDesc
	}
	flags := &HelpVersionFlags{}
	fs.BoolVar(&flags.Help, "help", false, helpDesc)
	fs.BoolVar(&flags.Help, "h", false, helpDesc)
	fs.BoolVar(&flags.Version, "version", false, versionDesc)
	fs.BoolVar(&flags.Version, "v", false, versionDesc)
	return flags
}

// LevelFlag is a flag.Value accepting debug, info, warn(ing) or error.
type LevelFlag struct {
	Level logging.Level
}

func (f *LevelFlag) String() string {
	if f == nil || f.Level == "" {
		return string(logging.LevelInfo)
	}
	return string(f.Level)
}

func (f *LevelFlag) Set(value string) error {
	level, ok := logging.ParseLevel(value)
	if !ok {
		return fmt.Errorf("unknown log level %q", value)
	}
	f.Level = level
	return nil
}

// AddLogLevelFlag registers --log-level with the given default.
func AddLogLevelFlag(fs *flag.FlagSet, defaultLevel logging.Level) *LevelFlag {
	level := &LevelFlag{Level: defaultLevel}
	if fs != nil {
		fs.Var(level, "log-level", "Log level: debug, info, warning, error")
	}
	return level
}
