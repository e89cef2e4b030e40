// Package editor holds the in-progress message: a UTF-8 buffer and a
// cursor counted in codepoints.
package editor

import (
	"unicode/utf8"
)

// Editor is the input field buffer. The zero value is an empty editor.
//
// The cursor is a codepoint index in [0, Len()]. Every operation clamps it
// back into range first, so a corrupted cursor is repaired rather than
// allowed to index outside the buffer.
type Editor struct {
	content string
	cursor  int
}

// New creates an empty editor
func New() *Editor {
	return &Editor{}
}

// Content returns the current text
func (e *Editor) Content() string {
	return e.content
}

// Cursor returns the cursor position in codepoints
func (e *Editor) Cursor() int {
	e.clamp()
	return e.cursor
}

// Len returns the number of codepoints in the buffer
func (e *Editor) Len() int {
	return utf8.RuneCountInString(e.content)
}

// IsEmpty reports whether there is nothing to send
func (e *Editor) IsEmpty() bool {
	return e.content == ""
}

// InsertAtCursor inserts r at the cursor and advances the cursor by one.
func (e *Editor) InsertAtCursor(r rune) {
	e.clamp()
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	at := byteOffset(e.content, e.cursor)
	e.content = e.content[:at] + string(r) + e.content[at:]
	e.cursor++
}

// RemoveBeforeCursor deletes the codepoint left of the cursor and
// returns it. At the start of the buffer it does nothing and reports false.
func (e *Editor) RemoveBeforeCursor() (rune, bool) {
	e.clamp()
	if e.cursor == 0 {
		return 0, false
	}
	e.cursor--
	at := byteOffset(e.content, e.cursor)
	r, size := utf8.DecodeRuneInString(e.content[at:])
	e.content = e.content[:at] + e.content[at+size:]
	return r, true
}

// MoveCursorLeft moves one codepoint left, stopping at 0.
func (e *Editor) MoveCursorLeft() {
	e.clamp()
	if e.cursor > 0 {
		e.cursor--
	}
}

// MoveCursorRight moves one codepoint right, stopping at the end.
func (e *Editor) MoveCursorRight() {
	e.clamp()
	if e.cursor < e.Len() {
		e.cursor++
	}
}

// TakeAndClear returns the content and resets the editor to empty.
func (e *Editor) TakeAndClear() string {
	text := e.content
	e.content = ""
	e.cursor = 0
	return text
}

func (e *Editor) clamp() {
	if e.cursor < 0 {
		e.cursor = 0
	}
	if n := e.Len(); e.cursor > n {
		e.cursor = n
	}
}

// byteOffset converts a codepoint index into a byte offset in s. Indexes
// past the end map to len(s).
func byteOffset(s string, idx int) int {
	if idx <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == idx {
			return i
		}
		n++
	}
	return len(s)
}
