package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds a job posting fetch
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent with every fetch
	DefaultUserAgent = "Mozilla/5.0 (compatible; RoadmapAgent/1.0)"
	// maxBodyBytes caps how much of a posting is read
	maxBodyBytes = 5 << 20
)

// FetchError represents an error fetching or extracting a job posting
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// FetchOptions configures URL ingestion
type FetchOptions struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
	// Browser re-renders pages whose static HTML yields too little text. Nil disables the fallback.
	Browser Renderer
	Logger  *zap.Logger
}

// DefaultFetchOptions returns the options used when nil is passed to FromURL
func DefaultFetchOptions() *FetchOptions {
	return &FetchOptions{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Platform represents a known job board
type Platform string

// Known job boards
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

// DetectPlatform identifies the job board from a URL host
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case strings.HasSuffix(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.HasSuffix(host, "lever.co"):
		return PlatformLever
	case strings.HasSuffix(host, "workday.com"), strings.HasSuffix(host, "myworkdayjobs.com"):
		return PlatformWorkday
	default:
		return PlatformUnknown
	}
}

// contentSelectors lists the selectors tried, in order, for the posting body
func contentSelectors(platform Platform) []string {
	generic := []string{
		".job-description",
		"#job-description",
		".job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		"#content",
		".content",
	}

	switch platform {
	case PlatformGreenhouse:
		return append([]string{".job__description.body", ".job__description", ".job-post-container"}, generic...)
	case PlatformLever:
		return append([]string{".posting-page", ".posting-description", ".section-wrapper.page-full-width"}, generic...)
	case PlatformWorkday:
		return append([]string{"[data-automation-id='jobDescription']", ".gwt-HTML"}, generic...)
	default:
		return generic
	}
}

// noiseSelectors is removed before the body is located
const noiseSelectors = "nav, header, footer, script, style, noscript, form, iframe, " +
	".cookie-banner, .cookie-consent, .gdpr-notice, .social-share, .share-buttons, " +
	".application-form, #application-form, .apply-button-container, .eeo-statement, .voluntary-disclosure"

// FromURL fetches a job posting and returns its cleaned main text.
// Pages yielding fewer than MinContentLength characters are rendered with
// opts.Browser when set, and rejected if the text is still too short.
func FromURL(ctx context.Context, urlStr string, opts *FetchOptions) (string, *Metadata, error) {
	if opts == nil {
		opts = DefaultFetchOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	html, err := fetchHTML(ctx, urlStr, opts)
	if err != nil {
		return "", nil, err
	}

	platform := DetectPlatform(urlStr)
	selectors := contentSelectors(platform)
	text, err := ExtractMainText(html, selectors)
	if err != nil {
		return "", nil, &FetchError{URL: urlStr, Message: "content extraction failed", Cause: err}
	}
	cleaned := CleanText(text)

	var renderErr error
	rendered := false
	if opts.Browser != nil && ShouldUseBrowser(cleaned) {
		logger.Debug("static page too short, rendering in browser",
			zap.String("url", urlStr),
			zap.Int("chars", len(cleaned)))
		var renderedText string
		renderedText, renderErr = renderText(ctx, opts.Browser, urlStr, selectors)
		switch {
		case renderErr != nil:
			logger.Warn("browser rendering failed, keeping static content", zap.String("url", urlStr), zap.Error(renderErr))
		case len(renderedText) > len(cleaned):
			cleaned = renderedText
			rendered = true
		}
	}

	if cleaned == "" {
		return "", nil, &FetchError{URL: urlStr, Message: "no job description text found", Cause: renderErr}
	}
	if ShouldUseBrowser(cleaned) {
		return "", nil, &FetchError{
			URL:     urlStr,
			Message: fmt.Sprintf("job description too short (%d chars, need %d); the page may render its content with JavaScript", len(cleaned), MinContentLength),
			Cause:   renderErr,
		}
	}

	meta := NewMetadata(SourceURL, urlStr, cleaned)
	meta.Platform = platform
	meta.Rendered = rendered
	return cleaned, meta, nil
}

func renderText(ctx context.Context, browser Renderer, urlStr string, selectors []string) (string, error) {
	html, err := browser.Render(ctx, urlStr)
	if err != nil {
		return "", err
	}
	text, err := ExtractMainText(html, selectors)
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

func fetchHTML(ctx context.Context, urlStr string, opts *FetchOptions) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", &FetchError{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}

// ExtractMainText parses HTML, drops navigation and form noise, and returns the
// text of the first element matching selectors, falling back to <body>.
func ExtractMainText(html string, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelectors).Remove()

	content := doc.Find("body")
	for _, selector := range selectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}

	// Block elements become line breaks so CleanText keeps the structure
	content.Find("p, li, h1, h2, h3, h4, h5, h6, div, br").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "li" {
			s.PrependHtml("- ")
		}
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(content.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
