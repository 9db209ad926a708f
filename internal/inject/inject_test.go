package inject

import (
	"errors"
	"testing"
)

func TestTypeDirectEmptyText(t *testing.T) {
	inj := NewInjector()
	if err := inj.TypeDirect(""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("TypeDirect(\"\") = %v, want ErrEmptyText", err)
	}
}

func TestTypeViaClipboardEmptyText(t *testing.T) {
	inj := NewInjector()
	if err := inj.TypeViaClipboard(""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("TypeViaClipboard(\"\") = %v, want ErrEmptyText", err)
	}
}

func TestPasteModifier(t *testing.T) {
	got := pasteModifier()
	if got != "ctrl" && got != "cmd" {
		t.Errorf("pasteModifier() = %q, want ctrl or cmd", got)
	}
}
