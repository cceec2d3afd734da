package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line with the elapsed time while a pipeline
// stage runs. It writes to stderr so artifacts sent to stdout stay clean, and
// it clears itself when ctx is cancelled.
type spinner struct {
	w       io.Writer
	label   string
	started time.Time

	ctx    context.Context
	cancel context.CancelFunc
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once

	mu    sync.Mutex
	width int // visible width of the last drawn line
}

// startSpinner draws the first frame and starts animating.
func startSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		label:   label,
		started: time.Now(),
		ctx:     sctx,
		cancel:  cancel,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.draw(spinnerFrames[i%len(spinnerFrames)])
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-s.quit:
			return
		case <-ticker.C:
		}
	}
}

func (s *spinner) draw(frame string) {
	elapsed := time.Since(s.started).Round(100 * time.Millisecond)
	line := styleIconSpinner.Render(frame) + " " + s.label + " " + StyleDim.Render(elapsed.String())

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r"+line)
	s.width = lipgloss.Width(line)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
		s.width = 0
	}
}

// stop ends the animation and clears the line. It may be called repeatedly.
func (s *spinner) stop() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
	s.cancel()
	s.clear()
}

// fail stops the spinner and leaves msg in its place.
func (s *spinner) fail(msg string) {
	s.stop()
	fmt.Fprintln(s.w, styleError.Render("✗")+" "+msg)
}
