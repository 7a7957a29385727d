package alert

import (
	"context"
	"fmt"
	"io"

	"github.com/Daskott/raksha/colors"
)

type CueKind string

const (
	CueWarning CueKind = "warning"
	CueSuccess CueKind = "success"
	CueError   CueKind = "error"
)

// Cue gives the user feedback around an alert attempt (haptics, sound...)
type Cue interface {
	Notify(ctx context.Context, kind CueKind)
}

type NopCue struct{}

func (NopCue) Notify(ctx context.Context, kind CueKind) {}

// TerminalCue rings the terminal bell & prints a colored line to Out
type TerminalCue struct {
	Out io.Writer
}

func (tc TerminalCue) Notify(ctx context.Context, kind CueKind) {
	switch kind {
	case CueWarning:
		fmt.Fprintln(tc.Out, "\a"+colors.Yellow("Sending SOS..."))
	case CueSuccess:
		fmt.Fprintln(tc.Out, colors.Green("SOS sent"))
	case CueError:
		fmt.Fprintln(tc.Out, "\a"+colors.Red("SOS failed"))
	}
}
