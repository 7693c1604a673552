package output

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/snag-dl/snag/internal/transfer"
)

// ProgressBar renders a fixed-width bar for current/total.
func ProgressBar(current, total int64, width int) string {
	if width <= 0 {
		width = 30
	}
	if total <= 0 {
		total = 1
	}
	if current < 0 {
		current = 0
	}
	if current > total {
		current = total
	}
	filled := int(float64(current) / float64(total) * float64(width))
	bar := StyleSymbols["bullet"]
	bar += strings.Repeat(StyleSymbols["hline"], filled)
	bar += strings.Repeat(" ", width-filled)
	bar += StyleSymbols["bullet"]
	return bar
}

// Renderer prints one transfer's event stream to the terminal: status lines
// on their own rows, progress updates rewritten in place.
type Renderer struct {
	barWidth   int
	lineActive bool
}

func NewRenderer() *Renderer {
	width := 30
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 60 {
		width = cols / 3
	}
	return &Renderer{barWidth: width}
}

// Consume renders events until the channel closes. Run it in its own
// goroutine alongside the transfer.
func (r *Renderer) Consume(events <-chan transfer.Event) {
	for event := range events {
		switch e := event.(type) {
		case transfer.StatusEvent:
			r.breakLine()
			fmt.Println(infoStyle.Render(StyleSymbols["arrow"] + " " + e.Message))
		case transfer.ProgressEvent:
			bar := ProgressBar(int64(e.Percent), 100, r.barWidth)
			fmt.Printf("\r\033[K%s %3d%% %s %s %s %s", bar, e.Percent, StyleSymbols["bullet"], debugStyle.Render(e.Rate), StyleSymbols["bullet"], debugStyle.Render(e.Transferred))
			r.lineActive = true
		case transfer.CompletionEvent:
			r.breakLine()
			fmt.Println(successStyle.Render(StyleSymbols["pass"] + " Download complete"))
		}
	}
	r.breakLine()
}

func (r *Renderer) breakLine() {
	if r.lineActive {
		fmt.Println()
		r.lineActive = false
	}
}
