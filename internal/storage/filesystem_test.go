package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Acme", want: "Acme"},
		{name: "spaces to underscores", input: "Acme Corporation", want: "Acme_Corporation"},
		{name: "comma and period removed", input: "Coca-Cola, Inc.", want: "Coca_Cola_Inc"},
		{name: "hyphens collapse", input: "Rolls--Royce", want: "Rolls_Royce"},
		{name: "mixed punctuation", input: "AT&T (US)", want: "ATT_US"},
		{name: "runs of separators", input: "A  -  B", want: "A_B"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeName(tc.input); got != tc.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeName_RestrictedCharsetAndLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("Very Long Company Name ", 10)
	got := SanitizeName(long)
	if len(got) > 50 {
		t.Errorf("sanitized name length = %d, want <= 50", len(got))
	}
	for _, r := range SanitizeName("Coca-Cola, Inc.") {
		ok := r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			t.Errorf("unexpected character %q in sanitized name", r)
		}
	}
}

func TestFileSystem_WriteAndExists(t *testing.T) {
	fs, err := NewFileSystem(t.TempDir())
	if err != nil {
		t.Fatalf("creating filesystem: %v", err)
	}

	// Write a fake PNG (just some bytes for testing)
	fakeImage := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	path, err := fs.Write("Coca-Cola, Inc.", 1, "png", fakeImage)
	if err != nil {
		t.Fatalf("writing logo: %v", err)
	}

	want := filepath.Join(fs.BaseDir(), "Coca_Cola_Inc", "logo_1.png")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if !fs.Exists("Coca-Cola, Inc.", 1, "png") {
		t.Error("expected logo to exist after write")
	}

	// Bytes land verbatim — no re-encoding.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading logo: %v", err)
	}
	if len(data) != len(fakeImage) {
		t.Fatalf("expected %d bytes, got %d", len(fakeImage), len(data))
	}
	for i, b := range data {
		if b != fakeImage[i] {
			t.Errorf("byte %d: expected %x, got %x", i, fakeImage[i], b)
		}
	}
}

func TestFileSystem_Exists_NotFound(t *testing.T) {
	fs, err := NewFileSystem(t.TempDir())
	if err != nil {
		t.Fatalf("creating filesystem: %v", err)
	}
	if fs.Exists("Nope", 1, "png") {
		t.Error("expected non-existent logo to return false")
	}
}

func TestFileSystem_LogoPath(t *testing.T) {
	fs := &FileSystem{baseDir: "/data/logos"}
	path := fs.LogoPath("Acme", 2, "svg")
	expected := "/data/logos/Acme/logo_2.svg"
	if path != expected {
		t.Errorf("expected path %s, got %s", expected, path)
	}
}
