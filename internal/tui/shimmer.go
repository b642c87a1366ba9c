package tui

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ShimmerConfig controls the highlight sweep over the selected row
type ShimmerConfig struct {
	Enabled  bool          // animate; otherwise the highlight is static
	Interval time.Duration // time between frames
	Band     int           // width of the bright band in runes
}

// DefaultShimmerConfig returns an animated sweep
func DefaultShimmerConfig() ShimmerConfig {
	return ShimmerConfig{
		Enabled:  true,
		Interval: 80 * time.Millisecond,
		Band:     4,
	}
}

// ShimmerConfigFor maps the animations setting onto a config. Terminals
// that ask for no color or cannot redraw get the static highlight.
func ShimmerConfigFor(animations bool) ShimmerConfig {
	cfg := DefaultShimmerConfig()
	if !animations || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		cfg.Enabled = false
	}
	return cfg
}

var (
	shimmerBase   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain)).Bold(true)
	shimmerBright = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
)

// ShimmerState is the sweep position shared by a model and its copies
type ShimmerState struct {
	cfg    ShimmerConfig
	active bool
	frame  int
	loop   int // id of the running tick loop; older loops stop on their next tick
}

// shimmerTickMsg advances the sweep of one tick loop
type shimmerTickMsg struct{ loop int }

// NewShimmerState creates an active sweep
func NewShimmerState(cfg ShimmerConfig) *ShimmerState {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultShimmerConfig().Interval
	}
	if cfg.Band <= 0 {
		cfg.Band = DefaultShimmerConfig().Band
	}
	return &ShimmerState{cfg: cfg, active: true}
}

func (s *ShimmerState) animated() bool {
	return s.cfg.Enabled && s.active
}

// Reset restarts the sweep from the left edge
func (s *ShimmerState) Reset() {
	s.frame = 0
}

// SetActive pauses or resumes the sweep
func (s *ShimmerState) SetActive(active bool) {
	s.active = active
}

// Tick starts a new tick loop, replacing any running one. It returns nil
// when there is nothing to animate.
func (s *ShimmerState) Tick() tea.Cmd {
	if !s.animated() {
		return nil
	}
	s.loop++
	return s.next()
}

// Step handles a tick: it advances one frame and schedules the next tick
// of the same loop
func (s *ShimmerState) Step(msg shimmerTickMsg) tea.Cmd {
	if msg.loop != s.loop || !s.animated() {
		return nil
	}
	s.frame++
	return s.next()
}

func (s *ShimmerState) next() tea.Cmd {
	loop := s.loop
	return tea.Tick(s.cfg.Interval, func(time.Time) tea.Msg {
		return shimmerTickMsg{loop: loop}
	})
}

// band returns the rune range [start, end) lit on a text of n runes. The
// band enters from the left, crosses and leaves before the cycle repeats.
func (s *ShimmerState) band(n int) (start, end int) {
	cycle := n + 2*s.cfg.Band
	if n == 0 || cycle == 0 {
		return 0, 0
	}
	start = s.frame%cycle - s.cfg.Band
	end = start + s.cfg.Band
	return min(max(start, 0), n), min(max(end, 0), n)
}

// RenderShimmerText truncates text to maxWidth and paints it with the
// accent color, brightening the band while the sweep runs
func (s *ShimmerState) RenderShimmerText(text string, maxWidth int) string {
	text = truncate(text, maxWidth)
	if !s.animated() {
		return shimmerBase.Render(text)
	}

	runes := []rune(text)
	start, end := s.band(len(runes))
	if start >= end {
		return shimmerBase.Render(text)
	}
	return shimmerBase.Render(string(runes[:start])) +
		shimmerBright.Render(string(runes[start:end])) +
		shimmerBase.Render(string(runes[end:]))
}

// truncate shortens text to maxWidth runes, marking the cut with "..."
func truncate(text string, maxWidth int) string {
	runes := []rune(text)
	if maxWidth <= 0 || len(runes) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return string(runes[:maxWidth])
	}
	return string(runes[:maxWidth-3]) + "..."
}
