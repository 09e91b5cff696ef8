package extract

import (
	"errors"
	"testing"
)

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{
			name:    "simple title",
			content: "<html><head><title>Home</title></head></html>",
			want:    "Home",
		},
		{
			name:    "inner markup is kept raw",
			content: "<title><b>Bold</b> &amp; more</title>",
			want:    "<b>Bold</b> &amp; more",
		},
		{
			name:    "first title wins",
			content: "<title>One</title><title>Two</title>",
			want:    "One",
		},
		{
			name:    "missing closing tag returns the remainder",
			content: "<title>Unclosed page",
			want:    "Unclosed page",
		},
		{
			name:    "empty title",
			content: "<title></title>",
			want:    "",
		},
		{
			name:    "no title tag fails",
			content: "<html><body>nothing here</body></html>",
			wantErr: ErrTitleMissing,
		},
		{
			name:    "title with attributes does not match the delimiter",
			content: `<title lang="en">Home</title>`,
			wantErr: ErrTitleMissing,
		},
		{
			name:    "empty content fails",
			content: "",
			wantErr: ErrTitleMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Title(tt.content)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{
			name:    "self-closing tag",
			content: `<meta name="description" content="Welcome"/>`,
			want:    "Welcome",
		},
		{
			name:    "plain closing",
			content: `<meta name="description" content="Welcome">`,
			want:    "Welcome",
		},
		{
			name:    "spaced self-close",
			content: `<meta name="description" content="Welcome" />`,
			want:    "Welcome",
		},
		{
			name:    "first tag wins",
			content: `<meta name="description" content="A"><meta name="description" content="B">`,
			want:    "A",
		},
		{
			name:    "missing tag yields empty",
			content: "<title>Home</title>",
			want:    "",
			wantErr: ErrDescriptionMissing,
		},
		{
			name:    "different attribute order is not recognised",
			content: `<meta content="Welcome" name="description">`,
			want:    "",
			wantErr: ErrDescriptionMissing,
		},
		{
			name:    "unterminated tag yields empty",
			content: `<meta name="description" content="Welcome`,
			want:    "",
			wantErr: ErrDescriptionMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Description(tt.content)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseMetadata(t *testing.T) {
	t.Parallel()

	t.Run("title and description", func(t *testing.T) {
		t.Parallel()
		md, err := ParseMetadata(`<title>Home</title><meta name="description" content="Welcome"/>`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if md.Title != "Home" || md.Description != "Welcome" {
			t.Errorf("expected Home/Welcome, got %q/%q", md.Title, md.Description)
		}
		if md.DescriptionErr != nil {
			t.Errorf("expected no description error, got %v", md.DescriptionErr)
		}
	})

	t.Run("missing description is soft", func(t *testing.T) {
		t.Parallel()
		md, err := ParseMetadata(`<title>Home</title>`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if md.Description != "" {
			t.Errorf("expected empty description, got %q", md.Description)
		}
		if !errors.Is(md.DescriptionErr, ErrDescriptionMissing) {
			t.Errorf("expected ErrDescriptionMissing, got %v", md.DescriptionErr)
		}
	})

	t.Run("missing title is hard", func(t *testing.T) {
		t.Parallel()
		_, err := ParseMetadata(`<meta name="description" content="Welcome"/>`)
		if !errors.Is(err, ErrTitleMissing) {
			t.Errorf("expected ErrTitleMissing, got %v", err)
		}
	})
}
