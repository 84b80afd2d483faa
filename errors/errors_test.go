package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindOutOfBounds,
				File:   "plugin.rsrc",
				Tag:    "eVER",
				Offset: 0x40,
				Detail: "reference list truncated",
			},
			contains: []string{"[parse]", "out_of_bounds", "plugin.rsrc", "eVER", "0x40", "reference list truncated"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDetect,
				Kind:  KindFormatUnknown,
			},
			contains: []string{"[detect]", "format_unknown"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRead,
				Kind:   KindIO,
				Detail: "open failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[read]", "io", "open failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseParse,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	// Test with errors.Unwrap
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseParse,
		Kind:  KindOutOfBounds,
		Tag:   "name",
	}

	// Same phase and kind
	if !err.Is(&Error{Phase: PhaseParse, Kind: KindOutOfBounds}) {
		t.Error("Is should match same phase and kind")
	}

	// Different phase
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different phase")
	}

	// Different kind
	if err.Is(&Error{Phase: PhaseParse, Kind: KindInvalidData}) {
		t.Error("Is should not match different kind")
	}

	// Test with errors.Is
	target := &Error{Phase: PhaseParse, Kind: KindOutOfBounds}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseParse, KindInvalidData).
		File("plugin.aex").
		Tag("REVe").
		Offset(0x1200).
		Cause(cause).
		Detail("expected %d pad bytes, got %d", 4, 9).
		Build()

	if err.Phase != PhaseParse {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseParse)
	}
	if err.Kind != KindInvalidData {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidData)
	}
	if err.File != "plugin.aex" {
		t.Errorf("File = %v, want 'plugin.aex'", err.File)
	}
	if err.Tag != "REVe" {
		t.Errorf("Tag = %v, want 'REVe'", err.Tag)
	}
	if err.Offset != 0x1200 {
		t.Errorf("Offset = %v, want 0x1200", err.Offset)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected 4 pad bytes, got 9" {
		t.Errorf("Detail = %v, want 'expected 4 pad bytes, got 9'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("FormatUnknown", func(t *testing.T) {
		err := FormatUnknown("mystery.bin")
		if err.Kind != KindFormatUnknown {
			t.Errorf("Kind = %v, want %v", err.Kind, KindFormatUnknown)
		}
		if err.File != "mystery.bin" {
			t.Errorf("File = %v, want 'mystery.bin'", err.File)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseParse, 1024, 512)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Offset != 1024 {
			t.Errorf("Offset = %v, want 1024", err.Offset)
		}
	})

	t.Run("ImplausibleLength", func(t *testing.T) {
		err := ImplausibleLength("REVe", 0x80, 65000)
		if err.Kind != KindImplausibleLength {
			t.Errorf("Kind = %v, want %v", err.Kind, KindImplausibleLength)
		}
		if !containsSubstring(err.Detail, "65000") {
			t.Errorf("Detail = %v, should contain declared length", err.Detail)
		}
	})

	t.Run("NoProperties", func(t *testing.T) {
		err := NoProperties("empty.rsrc")
		if err.Kind != KindNoProperties {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNoProperties)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseParse, ".rsrc section")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !containsSubstring(err.Detail, ".rsrc section") {
			t.Errorf("Detail = %v, should name the missing structure", err.Detail)
		}
	})

	t.Run("ReadFailed", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := ReadFailed("/tmp/x.aex", cause)
		if err.Kind != KindIO {
			t.Errorf("Kind = %v, want %v", err.Kind, KindIO)
		}
		if !errors.Is(err, &Error{Phase: PhaseRead, Kind: KindIO}) {
			t.Error("errors.Is should match read/io")
		}
		if !errors.Is(err.Cause, cause) {
			t.Error("cause should be preserved")
		}
	})
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
