package theme

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// TcellStyle converts a Style to a tcell style against the theme's
// background.
func (t *Theme) TcellStyle(s Style) tcell.Style {
	st := tcell.StyleDefault.Background(tcellColor(t.Background))
	if s.HasFg {
		st = st.Foreground(tcellColor(s.Foreground))
	} else {
		st = st.Foreground(tcellColor(t.Foreground))
	}
	if s.HasBg {
		st = st.Background(tcellColor(s.Background))
	}
	return st.Bold(s.Bold).Italic(s.Italic).Underline(s.Underline)
}

// Base returns the theme's default text style.
func (t *Theme) Base() tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcellColor(t.Foreground)).
		Background(tcellColor(t.Background))
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
