package extract

import (
	"slices"
	"sort"
	"strings"
	"testing"
)

func sorted(links []string) []string {
	out := slices.Clone(links)
	sort.Strings(out)
	return out
}

func TestLinks(t *testing.T) {
	t.Parallel()

	const domain = "http://site.com"

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "no href yields no links",
			content: "<html><body>plain</body></html>",
			want:    nil,
		},
		{
			name:    "root-relative link is resolved",
			content: `<a href="/about">x</a>`,
			want:    []string{"http://site.com/about"},
		},
		{
			name:    "absolute links are kept",
			content: `<a href="https://other.com/page">x</a><a href="http://third.com">y</a>`,
			want:    []string{"http://third.com", "https://other.com/page"},
		},
		{
			name:    "relative link without slash is dropped",
			content: `<a href="about.html">x</a><a href="./up">y</a>`,
			want:    nil,
		},
		{
			name:    "non-http schemes are dropped",
			content: `<a href="mailto:a@b.c">m</a><a href="javascript:void(0)">j</a><a href="#top">t</a><a href="ftp://x.com/f">f</a>`,
			want:    nil,
		},
		{
			name:    "protocol-relative link takes the domain scheme",
			content: `<a href="//cdn.site.com/page">x</a>`,
			want:    []string{"http://cdn.site.com/page"},
		},
		{
			name:    "duplicates are removed",
			content: `<a href="/a">1</a><a href="/a">2</a><a href="http://site.com/a">3</a>`,
			want:    []string{"http://site.com/a"},
		},
		{
			name:    "empty href is dropped",
			content: `<a href="">x</a>`,
			want:    nil,
		},
		{
			name:    "unterminated href takes the rest",
			content: `<a href="http://site.com/tail`,
			want:    []string{"http://site.com/tail"},
		},
		{
			name: "blacklisted extensions are dropped",
			content: `<link href="/style.css"><script href="/app.js"></script>` +
				`<a href="/data.json">d</a><img href="/pic.jpg"><img href="/pic.png">` +
				`<link href="/font.woff2"><a href="/STYLE.CSS">u</a><a href="/app.js?v=3">q</a>` +
				`<a href="/keep.html">k</a>`,
			want: []string{"http://site.com/keep.html"},
		},
		{
			name:    "extension must be a suffix",
			content: `<a href="/downloads/json-tools">x</a><a href="/jsonp">y</a>`,
			want:    []string{"http://site.com/downloads/json-tools", "http://site.com/jsonp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := sorted(Links(domain, tt.content))
			want := sorted(tt.want)
			if !slices.Equal(got, want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestLinksProperties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`<a href="/a">x</a><a href="/b">y</a><a href="/a">z</a>`,
		`<a href="http://x.com/a.js">y</a><a href="/about">x</a>`,
		strings.Repeat(`<a href="/same">x</a>`, 20),
		`href="href="href="`,
		``,
	}

	for _, in := range inputs {
		t.Run("idempotent and duplicate-free", func(t *testing.T) {
			t.Parallel()
			first := Links("https://d.com", in)
			second := Links("https://d.com", in)
			if !slices.Equal(sorted(first), sorted(second)) {
				t.Errorf("expected identical sets, got %v and %v", first, second)
			}
			seen := make(map[string]bool)
			for _, l := range first {
				if seen[l] {
					t.Errorf("duplicate link %q in %v", l, first)
				}
				seen[l] = true
				for _, ext := range blacklistedExtensions {
					if strings.HasSuffix(l, ext) {
						t.Errorf("blacklisted link %q in output", l)
					}
				}
				if !strings.HasPrefix(l, "http") {
					t.Errorf("non-http link %q in output", l)
				}
			}
		})
	}
}

func TestExtractScenario(t *testing.T) {
	t.Parallel()

	content := `<title>Home</title><meta name="description" content="Welcome"/>` +
		`<a href="/about">x</a><a href="http://x.com/a.js">y</a>`

	md, err := ParseMetadata(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md.Title != "Home" {
		t.Errorf("expected title 'Home', got %q", md.Title)
	}
	if md.Description != "Welcome" {
		t.Errorf("expected description 'Welcome', got %q", md.Description)
	}

	links := Links("http://site.com", content)
	if !slices.Equal(links, []string{"http://site.com/about"}) {
		t.Errorf("expected [http://site.com/about], got %v", links)
	}
}
