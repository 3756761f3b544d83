package enums

import "fmt"

// LogFormat selects how log entries are encoded.
type LogFormat string

const (
	LogFormatJSON    LogFormat = "json"
	LogFormatConsole LogFormat = "console"
)

var validLogFormats = []LogFormat{
	LogFormatJSON,
	LogFormatConsole,
}

func (f LogFormat) String() string {
	return string(f)
}

// ParseLogFormat converts raw input into a LogFormat.
func ParseLogFormat(value string) (LogFormat, error) {
	for _, candidate := range validLogFormats {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid log format %q", value)
}
