package chunker

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"docuchat/internal/domain"
)

func TestNew(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		s, err := New(1000, 200)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Size() != 1000 || s.Overlap() != 200 {
			t.Errorf("got size %d overlap %d", s.Size(), s.Overlap())
		}
	})

	t.Run("overlap equal to size rejected", func(t *testing.T) {
		_, err := New(100, 100)
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("overlap greater than size rejected", func(t *testing.T) {
		_, err := New(100, 150)
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("negative overlap rejected", func(t *testing.T) {
		_, err := New(100, -1)
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("zero size rejected", func(t *testing.T) {
		_, err := New(0, 0)
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestSplit_Basics(t *testing.T) {
	s, err := New(100, 20)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("empty input", func(t *testing.T) {
		if got := s.Split(""); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("short input is one chunk", func(t *testing.T) {
		got := s.Split("hello world")
		if len(got) != 1 || got[0] != "hello world" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("chunks never exceed size", func(t *testing.T) {
		text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50)
		for _, c := range s.Split(text) {
			if len(c) > 100 {
				t.Errorf("chunk of %d bytes exceeds size 100", len(c))
			}
		}
	})
}

// reconstruct rejoins chunks dropping each chunk's shared prefix. The
// shared prefix is the overlap, shortened to the next rune start in
// the previous chunk when the overlap distance lands mid-character.
func reconstruct(chunks []string, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(chunks[0])
	prev := chunks[0]
	for _, c := range chunks[1:] {
		j := len(prev) - overlap
		for j < len(prev) && !utf8.RuneStart(prev[j]) {
			j++
		}
		b.WriteString(c[len(prev)-j:])
		prev = c
	}
	return b.String()
}

func TestSplit_Reconstruction(t *testing.T) {
	texts := map[string]string{
		"paragraphs": strings.Repeat("First paragraph with some words.\n\nSecond paragraph follows here.\n\n", 30),
		"sentences":  strings.Repeat("One short sentence. Another one follows! Is this a question? ", 40),
		"no breaks":  strings.Repeat("abcdefghij", 200),
		"unicode":    strings.Repeat("héllo wörld ünïcode tëxt goes on and on. ", 60),
	}
	params := []struct{ size, overlap int }{
		{100, 0},
		{100, 20},
		{250, 50},
		{1000, 200},
		{50, 40},
	}

	for name, text := range texts {
		for _, p := range params {
			s, err := New(p.size, p.overlap)
			if err != nil {
				t.Fatal(err)
			}
			chunks := s.Split(text)
			if got := reconstruct(chunks, p.overlap); got != text {
				t.Errorf("%s size=%d overlap=%d: reconstruction mismatch (%d chunks)",
					name, p.size, p.overlap, len(chunks))
			}
		}
	}
}

func TestSplit_OverlapIsSharedVerbatim(t *testing.T) {
	s, err := New(80, 30)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("Words keep coming in a steady stream of prose. ", 30)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-30:]
		if chunks[i][:30] != prevTail {
			t.Errorf("chunk %d does not share %d bytes with its predecessor", i, 30)
		}
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	s, err := New(60, 10)
	if err != nil {
		t.Fatal(err)
	}
	text := "A first paragraph of text here.\n\nA second paragraph that continues with more words than fit."
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "\n\n") {
		t.Errorf("expected first chunk to end at the paragraph break, got %q", chunks[0])
	}
}

func TestSplit_HardCutKeepsRunesIntact(t *testing.T) {
	// No separators at all, multi-byte runes throughout. The odd
	// overlaps land mid-rune on 2-byte characters, so the chunk start
	// has to move to the next rune boundary.
	for _, p := range []struct{ size, overlap int }{
		{10, 2},
		{10, 3},
		{17, 5},
	} {
		s, err := New(p.size, p.overlap)
		if err != nil {
			t.Fatal(err)
		}
		text := strings.Repeat("ééééé", 20)
		chunks := s.Split(text)
		if len(chunks) < 2 {
			t.Fatalf("size=%d overlap=%d: expected multiple chunks, got %d", p.size, p.overlap, len(chunks))
		}
		for i, c := range chunks {
			if !utf8.ValidString(c) {
				t.Errorf("size=%d overlap=%d: chunk %d splits a rune: %q", p.size, p.overlap, i, c)
			}
		}
		if got := reconstruct(chunks, p.overlap); got != text {
			t.Errorf("size=%d overlap=%d: reconstruction mismatch (%d chunks)", p.size, p.overlap, len(chunks))
		}
	}
}
