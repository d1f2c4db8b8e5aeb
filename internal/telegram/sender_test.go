package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessage_ShortPassesThrough(t *testing.T) {
	parts := SplitMessage("hello", MaxMessageLen)
	if len(parts) != 1 || parts[0] != "hello" {
		t.Fatalf("short text must stay one part, got %v", parts)
	}
}

func TestSplitMessage_LongIsChunked(t *testing.T) {
	long := strings.Repeat("я", MaxMessageLen+10)
	parts := SplitMessage(long, MaxMessageLen)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	for i, p := range parts {
		if utf8.RuneCountInString(p) > MaxMessageLen {
			t.Fatalf("part %d exceeds the limit: %d runes", i, utf8.RuneCountInString(p))
		}
	}
	if strings.Join(parts, "") != long {
		t.Fatal("parts must reassemble into the original text")
	}
}

func TestSplitMessage_PrefersNewlineBoundary(t *testing.T) {
	first := strings.Repeat("a", 80)
	second := strings.Repeat("b", 60)
	parts := SplitMessage(first+"\n"+second, 100)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d: %v", len(parts), parts)
	}
	if parts[0] != first+"\n" {
		t.Fatalf("expected split after the newline, got %q", parts[0])
	}
	if parts[1] != second {
		t.Fatalf("expected remainder after the newline, got %q", parts[1])
	}
}
