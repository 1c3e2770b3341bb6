package platform

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

func ValidateDestination(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("recommendation has no destination")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

func OpenURLInBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Run()
}

// Browser opens destinations in the system browser, which always gives
// them a new browsing context apart from the terminal.
type Browser struct {
	run func(url string) error
}

func NewBrowser() *Browser {
	return &Browser{run: OpenURLInBrowser}
}

func (b *Browser) Open(destination string) error {
	target, err := ValidateDestination(destination)
	if err != nil {
		return err
	}
	if err := b.run(target); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
