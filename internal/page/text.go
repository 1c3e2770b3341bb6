package page

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func normalizeInlineText(s string) string {
	s = html.UnescapeString(s)
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part != "" {
			out = append(out, part)
		}
	}
	replacer := strings.NewReplacer(
		" .", ".",
		" ,", ",",
		" ;", ";",
		" :", ":",
		" !", "!",
		" ?", "?",
		" )", ")",
		"( ", "(",
	)
	return replacer.Replace(strings.Join(out, "\n"))
}

// wrapText breaks text on word boundaries; words longer than width are
// split. Widths are counted in runes.
func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for utf8.RuneCountInString(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				runes := []rune(word)
				out = append(out, string(runes[:width]))
				word = string(runes[width:])
			}
			if line == "" {
				line = word
				continue
			}
			if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width {
				line += " " + word
				continue
			}
			out = append(out, line)
			line = word
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func wrapPrefixedText(text string, width int, firstPrefix, restPrefix string) []string {
	if text == "" {
		return nil
	}
	firstWidth := max(1, width-visibleLen(firstPrefix))
	restWidth := max(1, width-visibleLen(restPrefix))
	out := make([]string, 0, 2)
	for i, line := range wrapText(text, firstWidth) {
		if i == 0 {
			out = append(out, firstPrefix+line)
			continue
		}
		if visibleLen(line) > restWidth {
			for _, sub := range wrapText(line, restWidth) {
				out = append(out, restPrefix+sub)
			}
			continue
		}
		out = append(out, restPrefix+line)
	}
	return out
}

func trimBlankLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines) - 1
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end < start {
		return nil
	}
	out := make([]string, 0, end-start+1)
	prevBlank := false
	for i := start; i <= end; i++ {
		blank := strings.TrimSpace(lines[i]) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, lines[i])
		prevBlank = blank
	}
	return out
}

func styleNonBlankLines(lines []string, style lipgloss.Style) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = line
			continue
		}
		out[i] = style.Render(line)
	}
	return out
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(reANSICodes.ReplaceAllString(s, ""))
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b4befe"))
	headingBars  = []lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#94e2d5")),
	}
	quotePrefix = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")).Render("│ ")
	quoteText   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#a6adc8"))
	codeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#585b70"))
)
