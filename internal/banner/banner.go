package banner

import (
	"github.com/charmbracelet/lipgloss"

	"jtlq/internal/tui/styles"
)

func GetString() string {
	renderer := lipgloss.DefaultRenderer()

	style := renderer.NewStyle().
		Foreground(styles.ColorBanner).
		Bold(true)

	ascii := `
     _ _   _       
    (_) |_| | __ _ 
    | | __| |/ _' |
    | | |_| | (_| |
   _/ |\__|_|\__, |
  |__/          |_|`

	return "\n" + style.Render(ascii) + "\n" +
		renderer.NewStyle().Foreground(styles.ColorSubtle).Render("  sample results, written and read back") + "\n"
}
