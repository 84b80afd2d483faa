package detect

import (
	"os"
	"path/filepath"
	"testing"

	stderrors "errors"

	pkgerrors "github.com/aefx/piplkit/errors"
	"github.com/aefx/piplkit/pipl"
)

func TestByContent(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    Format
		wantErr bool
	}{
		{"script", []byte("16000 PiPL DISCARDABLE\nBEGIN\nEND"), FormatScript, false},
		{"pe image", []byte("MZ\x90\x00"), FormatPE, false},
		{"fork by signature", []byte("xx8BIMname"), FormatResourceFork, false},
		{"fork by size", make([]byte, 300), FormatResourceFork, false},
		{"script beats size", append([]byte("PiPL BEGIN"), make([]byte, 500)...), FormatScript, false},
		{"unknown", []byte("short noise"), "", true},
		{"empty", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByContent(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ByContent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ByContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileByExtension(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file string
		want Format
	}{
		{"effect.rsrc", FormatResourceFork},
		{"effect.rcp", FormatScript},
		{"effect.r", FormatScript},
		{"Effect.AEX", FormatPE},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.file)
		if err := os.WriteFile(path, []byte("irrelevant"), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := File(path)
		if err != nil {
			t.Fatalf("File(%s) error: %v", tt.file, err)
		}
		if got != tt.want {
			t.Errorf("File(%s) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestFileByContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mystery.bin")
	if err := os.WriteFile(path, []byte("MZ\x90\x00stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := File(path)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	if got != FormatPE {
		t.Errorf("File() = %q, want %q", got, FormatPE)
	}
}

func TestFileUnknown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.bin")
	if err := os.WriteFile(path, []byte("tiny"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := File(path)
	if err == nil {
		t.Fatal("File() on unrecognizable content returned nil error")
	}
	var perr *pkgerrors.Error
	if !stderrors.As(err, &perr) || perr.Kind != pkgerrors.KindFormatUnknown {
		t.Errorf("error = %v, want kind %q", err, pkgerrors.KindFormatUnknown)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("File() on a missing path returned nil error")
	}
}

func TestFileBundleDirectory(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "Glow.plugin")
	if err := os.MkdirAll(bundle, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := File(bundle)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	if got != FormatBundle {
		t.Errorf("File() = %q, want %q", got, FormatBundle)
	}
}

func TestResourceInBundle(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "Glow.plugin")
	resources := filepath.Join(bundle, "Contents", "Resources")
	if err := os.MkdirAll(resources, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(resources, "Glow.rsrc")
	if err := os.WriteFile(want, []byte("fork"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ResourceInBundle(bundle)
	if err != nil {
		t.Fatalf("ResourceInBundle() error: %v", err)
	}
	if got != want {
		t.Errorf("ResourceInBundle() = %q, want %q", got, want)
	}
}

func TestResourceInBundleFallbackWalk(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "Glow.plugin")
	nested := filepath.Join(bundle, "Versions", "A")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(nested, "Glow.rsrc")
	if err := os.WriteFile(want, []byte("fork"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ResourceInBundle(bundle)
	if err != nil {
		t.Fatalf("ResourceInBundle() error: %v", err)
	}
	if got != want {
		t.Errorf("ResourceInBundle() = %q, want %q", got, want)
	}
}

func TestResourceInBundleEmpty(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "Empty.plugin")
	if err := os.MkdirAll(bundle, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := ResourceInBundle(bundle); err == nil {
		t.Error("ResourceInBundle() on an empty bundle returned nil error")
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		format Format
		want   pipl.Source
	}{
		{FormatResourceFork, pipl.SourceResourceFork},
		{FormatBundle, pipl.SourceResourceFork},
		{FormatPE, pipl.SourcePE},
		{FormatScript, pipl.SourceScript},
	}
	for _, tt := range tests {
		if got := tt.format.Source(); got != tt.want {
			t.Errorf("%q.Source() = %v, want %v", tt.format, got, tt.want)
		}
	}
}
