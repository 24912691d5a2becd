package linkmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		text string
		ok   bool
		want Parsed
	}{
		{
			name: "youtube watch",
			text: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			ok:   true,
			want: Parsed{Kind: KindEmbed, Service: "youtube", EmbedURL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name: "youtube short link no scheme",
			text: "youtu.be/dQw4w9WgXcQ",
			ok:   true,
			want: Parsed{Kind: KindEmbed, Service: "youtube", EmbedURL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name: "spotify track",
			text: "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT",
			ok:   true,
			want: Parsed{Kind: KindEmbed, Service: "spotify", EmbedURL: "https://open.spotify.com/embed/track/4cOdK2wGLETKBW3PvgPWqT"},
		},
		{
			name: "tistory entry",
			text: "https://someone.tistory.com/entry/my-post",
			ok:   true,
			want: Parsed{Kind: KindLink, Service: "tistory", URL: "https://someone.tistory.com/entry/my-post"},
		},
		{
			name: "tistory numeric no scheme",
			text: "someone.tistory.com/123",
			ok:   true,
			want: Parsed{Kind: KindLink, Service: "tistory", URL: "someone.tistory.com/123"},
		},
		{
			name: "postype short",
			text: "https://posty.pe/abc123",
			ok:   true,
			want: Parsed{Kind: KindLink, Service: "postype", URL: "https://posty.pe/abc123"},
		},
		{
			name: "plain text",
			text: "just a message",
			ok:   false,
		},
		{
			name: "bare domain",
			text: "https://example.com/watch?v=x",
			ok:   false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Parse(tc.text)
			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.want.Kind, got.Kind)
			assert.Equal(t, tc.want.Service, got.Service)
			if tc.want.EmbedURL != "" {
				assert.Equal(t, tc.want.EmbedURL, got.EmbedURL)
			}
		})
	}
}

func TestFetchExtractsOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<title>fallback title</title>
			<meta property="og:title" content="OG Title"/>
			<meta property="og:description" content="A description"/>
			<meta property="og:image" content="/img/cover.png"/>
		</head><body></body></html>`))
	}))
	defer srv.Close()

	md := Fetch(context.Background(), srv.URL)
	require.True(t, md.Success, "fetch failed: %s", md.Error)
	assert.Equal(t, "OG Title", md.Title)
	assert.Equal(t, "A description", md.Description)
	assert.Equal(t, srv.URL+"/img/cover.png", md.Image, "relative og:image must resolve against the page")
}

func TestFetchTitleFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Only Title</title></head><body></body></html>`))
	}))
	defer srv.Close()

	md := Fetch(context.Background(), srv.URL)
	require.True(t, md.Success)
	assert.Equal(t, "Only Title", md.Title)
}

func TestFetchFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	md := Fetch(context.Background(), srv.URL)
	assert.False(t, md.Success)
	assert.NotEmpty(t, md.Error)
}
