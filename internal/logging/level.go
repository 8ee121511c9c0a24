package logging

import "strings"

type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// severity orders levels; unknown levels count as info.
func (level Level) severity() int {
	switch level {
	case LevelDebug:
		return 0
	case LevelWarning:
		return 2
	case LevelError:
		return 3
	default:
		return 1
	}
}

func (level Level) known() bool {
	switch level {
	case LevelDebug, LevelInfo, LevelWarning, LevelError:
		return true
	}
	return false
}

// ParseLevel accepts debug, info, warn, warning and error in any case.
func ParseLevel(value string) (Level, bool) {
	switch normalized := Level(strings.ToLower(strings.TrimSpace(value))); normalized {
	case "warn":
		return LevelWarning, true
	case LevelDebug, LevelInfo, LevelWarning, LevelError:
		return normalized, true
	default:
		return "", false
	}
}
