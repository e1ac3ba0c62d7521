package services

import (
	"net/url"
	"testing"
)

func TestIsYoutubeURL(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=abc123", true},
		{"https://youtube.com/watch?v=abc123", true},
		{"https://m.youtube.com/watch?v=abc123", true},
		{"https://youtu.be/abc123", true},
		{"https://example.com/watch?v=abc123", false},
		{"https://notyoutube.com/video", false},
		{"https://youtube.com.evil.com/watch", false},
	}
	for _, tc := range cases {
		u, err := url.Parse(tc.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.raw, err)
		}
		if got := isYoutubeURL(u); got != tc.want {
			t.Fatalf("isYoutubeURL(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestExtractHTMLText(t *testing.T) {
	in := `<html><head><style>body { color: red; }</style>
<script>var x = "<p>not text</p>";</script></head>
<body><h1>Photosynthesis</h1><p>Plants&nbsp;convert light &amp; CO2.</p></body></html>`

	got := ExtractHTMLText(in)
	want := "Photosynthesis Plants convert light & CO2."
	if got != want {
		t.Fatalf("ExtractHTMLText = %q, want %q", got, want)
	}
}

func TestExtractHTMLTextEntities(t *testing.T) {
	got := ExtractHTMLText("a &lt;b&gt; &#39;c&#39; &quot;d&quot;")
	want := `a <b> 'c' "d"`
	if got != want {
		t.Fatalf("ExtractHTMLText = %q, want %q", got, want)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := collapseWhitespace(" one\ttwo\n\nthree four ")
	want := "one two three four"
	if got != want {
		t.Fatalf("collapseWhitespace = %q, want %q", got, want)
	}
}
