package util

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "resume.pdf", want: "resume.pdf"},
		{in: " resume.docx ", want: "resume.docx"},
		{in: "dir/resume.pdf", want: "dir_resume.pdf"},
		{in: `C:\cv\resume.docx`, want: "C:_cv_resume.docx"},
		{in: "res\x00ume\t.pdf", want: "resume.pdf"},
		{in: "Lebenslauf Müller.docx", want: "Lebenslauf Müller.docx"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "\x01\x02", wantErr: true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidFileName) {
				t.Fatalf("SanitizeFileName(%q) expected ErrInvalidFileName, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFileNameKeepsExtensionWhenShortening(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("é", 400) + ".docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := utf8.RuneCountInString(got); n != maxFileNameRunes {
		t.Fatalf("expected %d runes, got %d", maxFileNameRunes, n)
	}
	if filepath.Ext(got) != ".docx" {
		t.Fatalf("expected .docx extension, got %q", got)
	}
}
