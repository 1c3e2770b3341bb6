package platform

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestValidateDestination(t *testing.T) {
	valid, err := ValidateDestination(" https://example.com/path ")
	if err != nil {
		t.Fatalf("unexpected error for valid URL: %v", err)
	}
	if valid != "https://example.com/path" {
		t.Fatalf("unexpected normalized URL: %q", valid)
	}

	_, err = ValidateDestination("javascript:alert(1)")
	if err == nil || !strings.Contains(err.Error(), "unsupported URL scheme") {
		t.Fatalf("expected unsupported scheme error, got %v", err)
	}

	_, err = ValidateDestination("https://")
	if err == nil || !strings.Contains(err.Error(), "invalid URL host") {
		t.Fatalf("expected invalid host error, got %v", err)
	}

	if _, err := ValidateDestination(""); err == nil {
		t.Fatal("expected error for empty destination")
	}
}

func TestBrowserCommand(t *testing.T) {
	cases := []struct {
		goos string
		url  string
		name string
		args []string
	}{
		{goos: "darwin", url: "https://example.com", name: "open", args: []string{"https://example.com"}},
		{goos: "windows", url: "https://example.com", name: "rundll32", args: []string{"url.dll,FileProtocolHandler", "https://example.com"}},
		{goos: "linux", url: "https://example.com", name: "xdg-open", args: []string{"https://example.com"}},
	}
	for _, tc := range cases {
		gotName, gotArgs := browserCommand(tc.goos, tc.url)
		if gotName != tc.name || !reflect.DeepEqual(gotArgs, tc.args) {
			t.Fatalf("browserCommand(%q) = (%q, %v), want (%q, %v)", tc.goos, gotName, gotArgs, tc.name, tc.args)
		}
	}
}

func TestBrowser_Open(t *testing.T) {
	var opened []string
	b := &Browser{run: func(url string) error {
		opened = append(opened, url)
		return nil
	}}
	if err := b.Open("https://example.com/a"); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := b.Open("ftp://example.com/a"); err == nil {
		t.Fatal("expected invalid destination to be rejected")
	}
	if !reflect.DeepEqual(opened, []string{"https://example.com/a"}) {
		t.Fatalf("unexpected opened URLs: %v", opened)
	}

	b.run = func(string) error { return errors.New("no browser") }
	if err := b.Open("https://example.com/b"); err == nil || !strings.Contains(err.Error(), "no browser") {
		t.Fatalf("expected wrapped runner error, got %v", err)
	}
}
