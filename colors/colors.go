package colors

import "github.com/fatih/color"

var (
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Disable turns off colored output e.g. when stdout isn't a terminal
func Disable() {
	color.NoColor = true
}

// ForStatus picks a color for a status label: good ones green, degraded ones
// yellow & anything else red
func ForStatus(status string) string {
	switch status {
	case "ready", "online", "delivered", "confirmed":
		return Green(status)
	case "using_last", "sms_only", "loading", "pending":
		return Yellow(status)
	default:
		return Red(status)
	}
}
