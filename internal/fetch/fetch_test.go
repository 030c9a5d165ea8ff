package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

const articleHTML = `<!DOCTYPE html>
<html><head>
<title>  Concurrency Patterns in Go </title>
<meta name="description" content="Pipelines, fan-out and cancellation">
</head><body>
<article>
<h1>Concurrency</h1>
<h2>   </h2>
<h3>Pipelines</h3>
<p>Goroutines communicate over channels.</p>
<ul><li>fan-out</li><li>fan-in</li></ul>
</article>
</body></html>`

func TestParse_ExtractsSignal(t *testing.T) {
	page, err := Parse(strings.NewReader(articleHTML), "https://go.dev/blog/pipelines")
	assert.NilError(t, err)

	sig := page.Signal
	assert.Equal(t, sig.Title, "Concurrency Patterns in Go")
	assert.Equal(t, sig.Description, "Pipelines, fan-out and cancellation")
	assert.DeepEqual(t, sig.Headings, []string{"Concurrency", "Pipelines"})
	assert.Check(t, is.Contains(sig.VisibleText, "Goroutines communicate over channels."))
	assert.Check(t, is.Contains(sig.VisibleText, "fan-out"))
	assert.Check(t, !page.HasVideo)
	assert.Equal(t, page.VideoSelector, "")
}

func TestParse_EmptyPage(t *testing.T) {
	page, err := Parse(strings.NewReader(""), "https://example.com")
	assert.NilError(t, err)
	assert.Equal(t, page.Signal.Title, "")
	assert.Equal(t, page.Signal.Description, "")
	assert.Equal(t, page.Signal.VisibleText, "")
	assert.Equal(t, len(page.Signal.Headings), 0)
}

func TestParse_VideoDetection(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		html    string
		want    bool
		matched string
	}{
		{"video element", "https://example.com/clip", `<body><video src="a.mp4"></video></body>`, true, "video"},
		{"youtube embed", "https://example.com/post", `<iframe src="https://www.youtube.com/embed/xyz"></iframe>`, true, `iframe[src*="youtube"]`},
		{"adult url without markup", "https://www.pornhub.com/view", `<p>text</p>`, true, "url"},
		{"plain article", "https://example.com/post", `<p>text only</p>`, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Parse(strings.NewReader(tt.html), tt.url)
			assert.NilError(t, err)
			assert.Equal(t, page.HasVideo, tt.want)
			if tt.matched != "" {
				assert.Equal(t, page.VideoSelector, tt.matched)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articleHTML))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/data.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := New(500 * time.Millisecond)
	ctx := context.Background()

	page, err := f.Fetch(ctx, srv.URL+"/article")
	assert.NilError(t, err)
	assert.Equal(t, page.Signal.Title, "Concurrency Patterns in Go")

	_, err = f.Fetch(ctx, srv.URL+"/missing")
	var fe *FetchError
	assert.Assert(t, errors.As(err, &fe))
	assert.Equal(t, fe.StatusCode, http.StatusNotFound)

	page, err = f.Fetch(ctx, srv.URL+"/data.json")
	assert.NilError(t, err)
	assert.Equal(t, page.Signal.VisibleText, "")

	_, err = f.Fetch(ctx, srv.URL+"/slow")
	assert.Assert(t, errors.As(err, &fe))
	assert.Equal(t, fe.Reason, "Timeout")
}

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dial tcp: lookup nowhere.invalid: no such host", "DNS failure"},
		{"Get \"x\": context deadline exceeded (Client.Timeout exceeded while awaiting headers)", "Timeout"},
		{"dial tcp 127.0.0.1:1: connect: connection refused", "Connection refused"},
		{"x509: certificate signed by unknown authority", "TLS/certificate error"},
		{"something else", "something else"},
	}
	for _, tt := range tests {
		if got := normalizeError(tt.in); got != tt.want {
			t.Errorf("normalizeError(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
