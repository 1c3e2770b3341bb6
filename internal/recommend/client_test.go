package recommend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testEndpoint() Endpoint {
	return Endpoint{
		PublisherID: "taboola-templates",
		APIKey:      "key",
		AppType:     "desktop",
		SourceType:  "video",
		SourceID:    "demo-source",
		SourceURL:   "https://example.com/article?id=1",
	}
}

func TestFetch_BuildsQueryAndKeepsEveryOrigin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/taboola-templates/recommendations.get" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("count") != "3" {
			t.Fatalf("unexpected count query: %s", r.URL.RawQuery)
		}
		if q.Get("app.apikey") != "key" || q.Get("app.type") != "desktop" {
			t.Fatalf("unexpected app query: %s", r.URL.RawQuery)
		}
		if q.Get("source.url") != "https://example.com/article?id=1" {
			t.Fatalf("source.url not round-tripped: %s", q.Get("source.url"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[
			{"id":"rec1","name":"Test &amp; <b>Recommendation</b> 1","origin":"sponsored","branding":"Test Brand","thumbnail":[{"url":"https://img.example.com/1.jpg"}],"url":"https://example.com/1"},
			{"id":"rec2","name":"No Thumb","origin":"sponsored","url":"https://example.com/2"},
			{"id":"rec3","name":"Organic","origin":"organic","branding":"Organic Brand","url":"https://example.org"}
		]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, testEndpoint(), ts.Client())
	recs, err := c.Fetch(context.Background(), 3)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	want := []Recommendation{
		{ID: "rec1", Title: "Test & Recommendation 1", Branding: "Test Brand", ThumbnailURL: "https://img.example.com/1.jpg", Destination: "https://example.com/1", Origin: "sponsored"},
		{ID: "rec2", Title: "No Thumb", Destination: "https://example.com/2", Origin: "sponsored"},
		{ID: "rec3", Title: "Organic", Branding: "Organic Brand", Destination: "https://example.org", Origin: "organic"},
	}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Fatalf("unexpected recommendations (-want +got):\n%s", diff)
	}
	if recs[1].Thumbnail() != PlaceholderThumbnail {
		t.Fatalf("expected placeholder thumbnail, got %q", recs[1].Thumbnail())
	}
}

func TestFetch_EmptyListIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, testEndpoint(), ts.Client())
	recs, err := c.Fetch(context.Background(), 5)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}
}

func TestFetch_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, testEndpoint(), ts.Client())
	_, err := c.Fetch(context.Background(), 1)
	if err == nil {
		t.Fatal("expected status error")
	}
	if !strings.Contains(err.Error(), "status 502") || !strings.Contains(err.Error(), "upstream down") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetch_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"list":`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, testEndpoint(), ts.Client())
	if _, err := c.Fetch(context.Background(), 1); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestPlainText(t *testing.T) {
	cases := map[string]string{
		"":                                  "",
		"  Plain   title ":                  "Plain title",
		"Fish &amp; Chips":                  "Fish & Chips",
		"<p>Hello <em>world</em></p>":       "Hello world",
		"Brand<script>alert(1)</script> Co": "Brand Co",
	}
	for in, want := range cases {
		if got := PlainText(in); got != want {
			t.Fatalf("PlainText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilterSponsored(t *testing.T) {
	got := FilterSponsored([]Recommendation{
		{ID: "a", Origin: OriginSponsored},
		{ID: "b", Origin: "organic"},
		{ID: "c", Origin: OriginSponsored},
	})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}
