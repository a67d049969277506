package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var levels = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

type Sparkline struct {
	Data  []int64
	Width int
	Max   int64
	Style lipgloss.Style
	Label string
}

func NewSparkline(width int, label string, style lipgloss.Style) Sparkline {
	return Sparkline{
		Width: width,
		Label: label,
		Style: style,
		Data:  make([]int64, 0, width),
	}
}

// Add appends a point, scrolling the oldest out once the line is full.
func (s *Sparkline) Add(val int64) {
	s.Data = append(s.Data, val)
	if len(s.Data) > s.Width {
		s.Data = s.Data[len(s.Data)-s.Width:]
	}
	s.rescale()
}

// Fill replaces the data with vals squeezed into Width points. Each point
// is the largest value of its bucket so spikes stay visible.
func (s *Sparkline) Fill(vals []int64) {
	s.Data = s.Data[:0]
	if s.Width <= 0 || len(vals) == 0 {
		s.Max = 0
		return
	}
	n := min(s.Width, len(vals))
	for i := 0; i < n; i++ {
		lo, hi := i*len(vals)/n, (i+1)*len(vals)/n
		peak := vals[lo]
		for _, v := range vals[lo:hi] {
			peak = max(peak, v)
		}
		s.Data = append(s.Data, peak)
	}
	s.rescale()
}

func (s *Sparkline) rescale() {
	s.Max = 0
	for _, v := range s.Data {
		s.Max = max(s.Max, v)
	}
}

// Graph renders the bars alone, padded to Width.
func (s Sparkline) Graph() string {
	var graph strings.Builder
	for _, v := range s.Data {
		if s.Max <= 0 || v <= 0 {
			graph.WriteString(levels[0])
			continue
		}
		idx := int(float64(v) / float64(s.Max) * float64(len(levels)-1))
		idx = max(1, min(idx, len(levels)-1))
		graph.WriteString(levels[idx])
	}
	if pad := s.Width - len(s.Data); pad > 0 {
		graph.WriteString(strings.Repeat(" ", pad))
	}
	return graph.String()
}

func (s Sparkline) View() string {
	if s.Width <= 0 {
		return ""
	}
	return s.Style.Render(s.Label) + "\n" + s.Style.Render(s.Graph())
}
