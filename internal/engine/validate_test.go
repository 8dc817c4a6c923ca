package engine

import (
	"strings"
	"testing"
)

func TestValidateVideoID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"empty", "", true},
		{"one char", "a", false},
		{"typical", "dQw4w9WgXcQ", false},
		{"twenty chars", strings.Repeat("x", 20), false},
		{"twenty one chars", strings.Repeat("x", 21), true},
		{"url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateVideoID(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateVideoID(%q) expected error", tt.in)
				}
				if KindOf(err) != KindInvalidFormat {
					t.Errorf("kind = %s, want %s", KindOf(err), KindInvalidFormat)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateVideoID(%q) error = %v", tt.in, err)
			}
			if got != tt.in {
				t.Errorf("ValidateVideoID(%q) = %q", tt.in, got)
			}
		})
	}
}

func TestValidateImageRef(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"https", "https://x.com/a.png", false},
		{"http with query", "http://cdn.example.com/img?id=1", false},
		{"empty", "", true},
		{"bare word", "not a url", true},
		{"relative path", "/images/a.png", true},
		{"no host", "https://", true},
		{"scheme only", "mailto:someone", true},
		{"bad escape", "https://x.com/%zz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateImageRef(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateImageRef(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindInvalidFormat {
				t.Errorf("kind = %s, want %s", KindOf(err), KindInvalidFormat)
			}
		})
	}
}
