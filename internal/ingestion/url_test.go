package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// responsibilities keeps fixtures above MinContentLength
const responsibilities = "You will design, build and operate the services behind our payments platform. You will own APIs end to end, from schema design through deployment and on-call. You will partner with product and data teams to ship features that handle millions of requests per day. You will review code, mentor engineers and improve our observability and release tooling. You will help evolve our service boundaries as the company grows, and write design documents that explain trade-offs clearly to engineers and stakeholders across the organization."

const postingHTML = `<!DOCTYPE html>
<html>
<head><title>Backend Engineer</title><style>.x{}</style></head>
<body>
<nav>Jobs | About | Careers</nav>
<div class="job-description">
  <h2>Backend Engineer</h2>
  <p>Build   REST APIs in Go.</p>
  <p>` + responsibilities + `</p>
  <ul><li>SQL</li><li>Distributed systems</li></ul>
  <form id="application-form">Upload resume</form>
</div>
<footer>Copyright Acme</footer>
<script>track()</script>
</body>
</html>`

func TestFromURL_Success(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer server.Close()

	text, meta, err := FromURL(context.Background(), server.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer\nBuild REST APIs in Go.\n"+responsibilities+"\n- SQL\n- Distributed systems", text)
	assert.NotContains(t, text, "Careers")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "Upload resume")
	assert.NotContains(t, text, "track()")
	assert.Equal(t, DefaultUserAgent, userAgent)

	require.NotNil(t, meta)
	assert.Equal(t, SourceURL, meta.Kind)
	assert.Equal(t, server.URL, meta.Location)
	assert.Equal(t, PlatformUnknown, meta.Platform)
	assert.False(t, meta.Rendered)
}

func TestFromURL_FallsBackToBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><nav>menu</nav><p>Plain posting text</p><p>` + responsibilities + `</p></body></html>`))
	}))
	defer server.Close()

	text, _, err := FromURL(context.Background(), server.URL, &FetchOptions{UserAgent: "test-agent"})
	require.NoError(t, err)
	assert.Equal(t, "Plain posting text\n"+responsibilities, text)
}

func TestFromURL_HTTPErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{name: "not found", status: http.StatusNotFound, body: "missing", errMsg: "HTTP status 404"},
		{name: "server error", status: http.StatusInternalServerError, body: "oops", errMsg: "HTTP status 500"},
		{name: "empty page", status: http.StatusOK, body: "<html><body><nav>only nav</nav></body></html>", errMsg: "no job description text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, _, err := FromURL(context.Background(), server.URL, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)

			var fetchErr *FetchError
			assert.True(t, errors.As(err, &fetchErr))
		})
	}
}

func TestFromURL_InvalidURL(t *testing.T) {
	for _, urlStr := range []string{"", "not-a-url", "example.com", "http://", "ftp://example.com/job"} {
		t.Run(urlStr, func(t *testing.T) {
			_, _, err := FromURL(context.Background(), urlStr, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestFromURL_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := FromURL(ctx, server.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// shellHTML is a client-rendered page before its scripts run
const shellHTML = `<html><body><div id="root">Loading...</div><script src="/app.js"></script></body></html>`

type fakeRenderer struct {
	html  string
	err   error
	calls []string
}

func (f *fakeRenderer) Render(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	return f.html, f.err
}

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFromURL_ShortContentRejected(t *testing.T) {
	server := serveHTML(t, shellHTML)

	_, meta, err := FromURL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Nil(t, meta)
	assert.Contains(t, err.Error(), "too short")
	assert.Contains(t, err.Error(), "JavaScript")

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, server.URL, fetchErr.URL)
}

func TestFromURL_RendersShortPages(t *testing.T) {
	server := serveHTML(t, shellHTML)
	renderer := &fakeRenderer{
		html: `<html><body><div id="root"><div class="job-description"><p>` + responsibilities + `</p></div></div></body></html>`,
	}

	text, meta, err := FromURL(context.Background(), server.URL, &FetchOptions{Browser: renderer})
	require.NoError(t, err)
	assert.Equal(t, responsibilities, text)
	assert.Equal(t, []string{server.URL}, renderer.calls)
	require.NotNil(t, meta)
	assert.True(t, meta.Rendered)
	assert.Equal(t, computeHash(responsibilities), meta.Hash)
}

func TestFromURL_SkipsBrowserForLongPages(t *testing.T) {
	server := serveHTML(t, postingHTML)
	renderer := &fakeRenderer{err: errors.New("should not render")}

	_, meta, err := FromURL(context.Background(), server.URL, &FetchOptions{Browser: renderer})
	require.NoError(t, err)
	assert.Empty(t, renderer.calls)
	assert.False(t, meta.Rendered)
}

func TestFromURL_RenderFailure(t *testing.T) {
	server := serveHTML(t, shellHTML)
	renderErr := errors.New("chrome not found")
	renderer := &fakeRenderer{err: renderErr}

	_, _, err := FromURL(context.Background(), server.URL, &FetchOptions{Browser: renderer})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
	assert.ErrorIs(t, err, renderErr)
	assert.Len(t, renderer.calls, 1)
}

func TestFromURL_RenderedStillShort(t *testing.T) {
	server := serveHTML(t, shellHTML)
	renderer := &fakeRenderer{html: `<html><body><main>Senior Engineer</main></body></html>`}

	_, _, err := FromURL(context.Background(), server.URL, &FetchOptions{Browser: renderer})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser(""))
	assert.True(t, ShouldUseBrowser("Loading..."))
	assert.True(t, ShouldUseBrowser("   "+strings.Repeat("x", MinContentLength-1)+"   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
	assert.False(t, ShouldUseBrowser(responsibilities))
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://job-boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/abc", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers/job/1", PlatformWorkday},
		{"https://careers.acme.com/jobs/1", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestExtractMainText_PlatformSelectors(t *testing.T) {
	html := `<html><body>
<div class="sidebar">Other jobs</div>
<div class="job__description body"><p>Greenhouse body</p></div>
<main>Generic main</main>
</body></html>`

	text, err := ExtractMainText(html, contentSelectors(PlatformGreenhouse))
	require.NoError(t, err)
	assert.Equal(t, "Greenhouse body", text)

	text, err = ExtractMainText(html, contentSelectors(PlatformUnknown))
	require.NoError(t, err)
	assert.Equal(t, "Generic main", text)
}

func TestLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main><p>From URL</p><p>` + responsibilities + `</p></main></body></html>`))
	}))
	defer server.Close()

	file := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(file, []byte("From file"), 0644))

	tests := []struct {
		name string
		src  Source
		want string
		kind SourceKind
	}{
		{name: "inline", src: Source{Text: "Inline text"}, want: "Inline text", kind: SourceInline},
		{name: "file replaces text", src: Source{Text: "Inline text", File: file}, want: "From file", kind: SourceFile},
		{name: "url replaces text", src: Source{Text: "Inline text", URL: server.URL}, want: "From URL\n" + responsibilities, kind: SourceURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, meta, err := Load(context.Background(), tt.src, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, tt.kind, meta.Kind)
		})
	}

	_, _, err := Load(context.Background(), Source{File: file, URL: server.URL}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
