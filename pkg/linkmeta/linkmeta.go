// Package linkmeta classifies pasted URLs into embeddable or linkable
// services and scrapes OpenGraph metadata for link previews.
package linkmeta

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"pairlog/pkg/logger"

	"golang.org/x/net/html"
)

// Classification of a recognized URL. Embeds render inline via an
// iframe URL, links render as a preview card.
const (
	KindEmbed = "embed"
	KindLink  = "link"
)

// Parsed describes a recognized URL. EmbedURL is set for embeds only.
type Parsed struct {
	Kind     string `json:"kind"`
	Service  string `json:"service"`
	URL      string `json:"url,omitempty"`
	EmbedURL string `json:"embedUrl,omitempty"`
}

var (
	youtubeRe = regexp.MustCompile(`^(?:https?://)?(?:www\.)?(?:youtube\.com/(?:watch\?v=|embed/|v/)|youtu\.be/)([\w-]{11})(?:\S+)?$`)
	spotifyRe = regexp.MustCompile(`^(?:https?://)?(?:open\.)?spotify\.com/(track|album|playlist|artist|episode)/([a-zA-Z0-9]+)`)
	tistoryRe = regexp.MustCompile(`^(?:https?://)?[\w-]+\.tistory\.com/(\d+|entry/.*)`)
	postypeRe = regexp.MustCompile(`^(?:https?://)?(?:www\.)?(?:postype\.com/@[\w-]+/post/|posty\.pe/)[\w-]+`)
)

// Parse classifies trimmed text as a known service URL. It returns
// false for anything unrecognized, which callers treat as plain text.
// Blog services are checked before embed services; the blog patterns
// are the more specific ones.
func Parse(text string) (Parsed, bool) {
	t := strings.TrimSpace(text)
	if tistoryRe.MatchString(t) {
		return Parsed{Kind: KindLink, Service: "tistory", URL: t}, true
	}
	if postypeRe.MatchString(t) {
		return Parsed{Kind: KindLink, Service: "postype", URL: t}, true
	}
	if m := youtubeRe.FindStringSubmatch(t); m != nil {
		return Parsed{
			Kind:     KindEmbed,
			Service:  "youtube",
			EmbedURL: "https://www.youtube.com/embed/" + m[1],
		}, true
	}
	if m := spotifyRe.FindStringSubmatch(t); m != nil {
		return Parsed{
			Kind:     KindEmbed,
			Service:  "spotify",
			EmbedURL: fmt.Sprintf("https://open.spotify.com/embed/%s/%s", m[1], m[2]),
		}, true
	}
	return Parsed{}, false
}

// Metadata is the scraped link preview. Error carries the failure text
// when Success is false; preview failures are not fatal to the message.
type Metadata struct {
	Success     bool   `json:"success"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Some blogs serve empty pages to unknown agents, so the fetch presents
// a browser user agent.
const fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxFetchBytes caps how much of a page is read; OpenGraph tags live in
// the head.
const maxFetchBytes = 1 << 20

var fetchClient = &http.Client{Timeout: 10 * time.Second}

// Fetch downloads the page and extracts OpenGraph metadata. Failures
// are reported in the returned Metadata rather than as an error so a
// dead link still posts as a bare link message.
func Fetch(ctx context.Context, pageURL string) Metadata {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalizeURL(pageURL), nil)
	if err != nil {
		return Metadata{Error: err.Error()}
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	resp, err := fetchClient.Do(req)
	if err != nil {
		logger.Warn("link_metadata_fetch_failed", "url", pageURL, "error", err)
		return Metadata{Error: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warn("link_metadata_fetch_failed", "url", pageURL, "status", resp.StatusCode)
		return Metadata{Error: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	md := extract(io.LimitReader(resp.Body, maxFetchBytes))
	md.Image = absoluteImage(md.Image, resp.Request.URL)
	md.Success = true
	return md
}

// normalizeURL adds a scheme when the pasted text lacks one; the
// classifier regexes accept scheme-less URLs.
func normalizeURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

// extract walks the HTML and collects og:title/og:description/og:image,
// falling back to same-named meta tags and the <title> element.
func extract(r io.Reader) Metadata {
	var md Metadata
	var titleText string
	tok := html.NewTokenizer(r)
	for {
		switch tok.Next() {
		case html.ErrorToken:
			if md.Title == "" {
				md.Title = strings.TrimSpace(titleText)
			}
			return md
		case html.StartTagToken, html.SelfClosingTagToken:
			t := tok.Token()
			switch t.Data {
			case "meta":
				name, content := metaAttrs(t)
				switch name {
				case "og:title", "title":
					if md.Title == "" {
						md.Title = strings.TrimSpace(content)
					}
				case "og:description", "description":
					if md.Description == "" {
						md.Description = strings.TrimSpace(content)
					}
				case "og:image", "image":
					if md.Image == "" {
						md.Image = content
					}
				}
			case "title":
				if tok.Next() == html.TextToken {
					titleText = string(tok.Text())
				}
			}
		}
	}
}

func metaAttrs(t html.Token) (name, content string) {
	for _, a := range t.Attr {
		switch a.Key {
		case "property", "name":
			if name == "" {
				name = a.Val
			}
		case "content":
			content = a.Val
		}
	}
	return name, content
}

// absoluteImage resolves a relative og:image against the page origin.
func absoluteImage(img string, page *url.URL) string {
	if img == "" || strings.HasPrefix(img, "http") || page == nil {
		return img
	}
	ref, err := url.Parse(img)
	if err != nil {
		return img
	}
	return page.ResolveReference(ref).String()
}
