package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/sponsored-cli/internal/tui/theme"
)

func Toolbar(mobile, showHelp bool) string {
	if showHelp {
		return "j/k/arrows: scroll page | pgup/pgdown: jump | g/G: top/bottom | tab/shift+tab: focus card | enter/o: open | x: dismiss card | r: retry | t: collapse/expand (narrow) | ?: help | q: quit"
	}
	if mobile {
		return "j/k scroll | tab focus | enter open | x dismiss | r retry | t toggle | ? help | q quit"
	}
	return "j/k scroll | tab focus | enter open | x dismiss | r retry | ? help | q quit"
}

// StatusInfo is what the status line reports.
type StatusInfo struct {
	Phase      string
	Mode       string
	Visibility string
	Retries    int
	Shown      int
	Notice     string
}

func StatusLine(info StatusInfo, th tuitheme.Theme) string {
	parts := []string{
		th.StateLabel(info.Phase),
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(info.Mode),
	}
	if info.Visibility != "" {
		parts = append(parts, th.MetaValue.Render(info.Visibility))
	}
	parts = append(parts,
		th.MetaValue.Render(fmt.Sprintf("%d shown", info.Shown)),
		th.MetaLabel.Render("retries")+" "+th.MetaValue.Render(fmt.Sprintf("%d", info.Retries)),
	)
	line := strings.Join(parts, " • ")
	if info.Notice != "" {
		line += " | " + th.Notice.Render(info.Notice)
	}
	return line
}

// Header is the title bar above the host page.
func Header(title string, th tuitheme.Theme) string {
	if title == "" {
		title = "Untitled page"
	}
	return th.Title.Render(title)
}
