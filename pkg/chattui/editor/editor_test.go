package editor

import (
	"math/rand"
	"testing"
	"unicode/utf8"
)

func typeString(e *Editor, s string) {
	for _, r := range s {
		e.InsertAtCursor(r)
	}
}

func TestNewIsEmpty(t *testing.T) {
	e := New()
	if !e.IsEmpty() || e.Cursor() != 0 || e.Len() != 0 {
		t.Errorf("expected empty editor, got content=%q cursor=%d", e.Content(), e.Cursor())
	}

	var zero Editor
	zero.InsertAtCursor('x')
	if zero.Content() != "x" {
		t.Errorf("zero value editor not usable: %q", zero.Content())
	}
}

func TestInsertAppends(t *testing.T) {
	e := New()
	typeString(e, "abc")
	if e.Content() != "abc" || e.Cursor() != 3 {
		t.Errorf("expected abc/3, got %q/%d", e.Content(), e.Cursor())
	}
}

func TestInsertInMiddle(t *testing.T) {
	e := New()
	typeString(e, "ac")
	e.MoveCursorLeft()
	e.InsertAtCursor('b')
	if e.Content() != "abc" || e.Cursor() != 2 {
		t.Errorf("expected abc/2, got %q/%d", e.Content(), e.Cursor())
	}
}

func TestInsertAtStart(t *testing.T) {
	e := New()
	typeString(e, "bc")
	e.MoveCursorLeft()
	e.MoveCursorLeft()
	e.InsertAtCursor('a')
	if e.Content() != "abc" || e.Cursor() != 1 {
		t.Errorf("expected abc/1, got %q/%d", e.Content(), e.Cursor())
	}
}

func TestInsertMultibyteAtEveryPosition(t *testing.T) {
	base := "hé✓日🙂"
	inserts := []rune{'é', '✓', '日', '🙂', 'x'}

	for _, ins := range inserts {
		for pos := 0; pos <= utf8.RuneCountInString(base); pos++ {
			e := New()
			typeString(e, base)
			for e.Cursor() > pos {
				e.MoveCursorLeft()
			}

			before := e.Len()
			e.InsertAtCursor(ins)

			if e.Len() != before+1 {
				t.Errorf("insert %q at %d: len %d -> %d", ins, pos, before, e.Len())
			}
			if e.Cursor() != pos+1 {
				t.Errorf("insert %q at %d: cursor %d", ins, pos, e.Cursor())
			}
			if !utf8.ValidString(e.Content()) {
				t.Errorf("insert %q at %d: invalid utf8 %q", ins, pos, e.Content())
			}
			runes := []rune(e.Content())
			if runes[pos] != ins {
				t.Errorf("insert %q at %d: got %q", ins, pos, e.Content())
			}
		}
	}
}

func TestRemoveBeforeCursor(t *testing.T) {
	e := New()
	typeString(e, "añb")
	e.MoveCursorLeft()

	r, ok := e.RemoveBeforeCursor()
	if !ok || r != 'ñ' {
		t.Errorf("expected to remove ñ, got %q %v", r, ok)
	}
	if e.Content() != "ab" || e.Cursor() != 1 {
		t.Errorf("expected ab/1, got %q/%d", e.Content(), e.Cursor())
	}
}

func TestRemoveAtStartIsNoop(t *testing.T) {
	e := New()
	if r, ok := e.RemoveBeforeCursor(); ok || r != 0 {
		t.Errorf("expected none on empty buffer, got %q %v", r, ok)
	}

	typeString(e, "xy")
	e.MoveCursorLeft()
	e.MoveCursorLeft()
	if _, ok := e.RemoveBeforeCursor(); ok {
		t.Error("expected none with cursor at 0")
	}
	if e.Content() != "xy" || e.Cursor() != 0 {
		t.Errorf("state changed: %q/%d", e.Content(), e.Cursor())
	}
}

func TestCursorSaturates(t *testing.T) {
	e := New()
	e.MoveCursorLeft()
	e.MoveCursorRight()
	if e.Cursor() != 0 {
		t.Errorf("expected 0 on empty buffer, got %d", e.Cursor())
	}

	typeString(e, "日本")
	e.MoveCursorRight()
	if e.Cursor() != 2 {
		t.Errorf("expected saturation at 2, got %d", e.Cursor())
	}
	for i := 0; i < 5; i++ {
		e.MoveCursorLeft()
	}
	if e.Cursor() != 0 {
		t.Errorf("expected saturation at 0, got %d", e.Cursor())
	}
}

func TestTakeAndClear(t *testing.T) {
	e := New()
	typeString(e, "héllo")
	e.MoveCursorLeft()

	got := e.TakeAndClear()
	if got != "héllo" {
		t.Errorf("expected héllo, got %q", got)
	}
	if e.Content() != "" || e.Cursor() != 0 || !e.IsEmpty() {
		t.Errorf("expected cleared editor, got %q/%d", e.Content(), e.Cursor())
	}
}

func TestClampRepairsCursor(t *testing.T) {
	e := &Editor{content: "abc", cursor: 42}
	if e.Cursor() != 3 {
		t.Errorf("expected clamp to 3, got %d", e.Cursor())
	}
	e.InsertAtCursor('d')
	if e.Content() != "abcd" {
		t.Errorf("expected append after clamp, got %q", e.Content())
	}

	e = &Editor{content: "abc", cursor: -7}
	if _, ok := e.RemoveBeforeCursor(); ok {
		t.Error("expected no removal from clamped cursor 0")
	}
	if e.Cursor() != 0 {
		t.Errorf("expected clamp to 0, got %d", e.Cursor())
	}
}

func TestRandomOperationsKeepCursorInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabet := []rune{'a', 'Z', ' ', 'é', 'ß', '✓', '日', '🙂'}

	for run := 0; run < 200; run++ {
		e := New()
		var model []rune
		cursor := 0

		for step := 0; step < 100; step++ {
			switch rng.Intn(4) {
			case 0:
				r := alphabet[rng.Intn(len(alphabet))]
				e.InsertAtCursor(r)
				model = append(model[:cursor], append([]rune{r}, model[cursor:]...)...)
				cursor++
			case 1:
				r, ok := e.RemoveBeforeCursor()
				if cursor == 0 {
					if ok {
						t.Fatalf("run %d step %d: removed at start", run, step)
					}
					break
				}
				cursor--
				want := model[cursor]
				model = append(model[:cursor], model[cursor+1:]...)
				if !ok || r != want {
					t.Fatalf("run %d step %d: removed %q want %q", run, step, r, want)
				}
			case 2:
				e.MoveCursorLeft()
				if cursor > 0 {
					cursor--
				}
			case 3:
				e.MoveCursorRight()
				if cursor < len(model) {
					cursor++
				}
			}

			if e.Cursor() < 0 || e.Cursor() > e.Len() {
				t.Fatalf("run %d step %d: cursor %d out of [0,%d]", run, step, e.Cursor(), e.Len())
			}
			if e.Content() != string(model) || e.Cursor() != cursor {
				t.Fatalf("run %d step %d: got %q/%d want %q/%d", run, step, e.Content(), e.Cursor(), string(model), cursor)
			}
		}
	}
}
