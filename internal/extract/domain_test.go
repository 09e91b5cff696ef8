package extract

import (
	"errors"
	"testing"
)

func TestDomainOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rawURL  string
		want    string
		wantErr bool
	}{
		{name: "path is dropped", rawURL: "https://example.com/a/b", want: "https://example.com"},
		{name: "bare host", rawURL: "http://example.com", want: "http://example.com"},
		{name: "trailing slash", rawURL: "http://example.com/", want: "http://example.com"},
		{name: "port is kept", rawURL: "http://example.com:8080/x", want: "http://example.com:8080"},
		{name: "query stays with host segment", rawURL: "http://example.com?q=1", want: "http://example.com?q=1"},
		{name: "not a url", rawURL: "not-a-url", wantErr: true},
		{name: "single slash", rawURL: "http:/example.com", wantErr: true},
		{name: "empty", rawURL: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DomainOf(tt.rawURL)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedURL) {
					t.Fatalf("expected ErrMalformedURL, got %v", err)
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
