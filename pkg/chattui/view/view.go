/*
Copyright 2018-2024 Craig Johnston <cjimti@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package view turns the client state into what the terminal shows: a
// bottom-anchored scrollback pane above a one-line input bar.
package view

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/txn2/termchat/pkg/chatapi/types"
	"github.com/txn2/termchat/pkg/chattui/styles"
)

// Prompt starts the input bar
const Prompt = "> "

// Frame is one fully laid out screen. Scrollback always has exactly
// max(0, Height-1) rows; blank rows are empty strings.
type Frame struct {
	Width  int
	Height int

	// Scrollback rows, top to bottom, unstyled
	Scrollback []string
	// Messages shown, aligned with the non-blank tail of Scrollback
	Visible []types.Message

	Input   string // Prompt + content
	Content string
	Cursor  int // codepoints into Content

	// Terminal cell for the cursor: CursorX counts codepoints
	CursorX int
	CursorY int
}

// Notice is a short side-channel message shown at the right of the input bar
type Notice struct {
	Text  string
	Error bool
	Hint  bool
}

// Render lays out a frame. It does not depend on anything but its
// arguments.
func Render(width, height int, messages []types.Message, content string, cursor int) Frame {
	rows := height - 1
	if rows < 0 {
		rows = 0
	}

	n := utf8.RuneCountInString(content)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > n {
		cursor = n
	}

	visible := messages
	if len(visible) > rows {
		visible = visible[len(visible)-rows:]
	}

	scrollback := make([]string, rows)
	pad := rows - len(visible)
	for i, m := range visible {
		scrollback[pad+i] = FormatMessage(m)
	}

	return Frame{
		Width:      width,
		Height:     height,
		Scrollback: scrollback,
		Visible:    visible,
		Input:      Prompt + content,
		Content:    content,
		Cursor:     cursor,
		CursorX:    utf8.RuneCountInString(Prompt) + cursor,
		CursorY:    rows,
	}
}

// FormatMessage renders a message as "{id}: {text}" on a single line.
func FormatMessage(m types.Message) string {
	return strconv.FormatUint(m.ID, 10) + ": " + flatten(m.Text)
}

// flatten replaces line breaks, tabs and other control characters with
// spaces so a message never spans more than one row.
func flatten(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// String renders the frame with styles, exactly Height rows, each cut
// to Width cells.
func (f Frame) String(notice Notice) string {
	if f.Height <= 0 || f.Width <= 0 {
		return ""
	}

	clip := lipgloss.NewStyle().MaxWidth(f.Width)
	lines := make([]string, 0, f.Height)

	pad := len(f.Scrollback) - len(f.Visible)
	for i := 0; i < pad; i++ {
		lines = append(lines, "")
	}
	for _, m := range f.Visible {
		line := styles.MessageIDStyle.Render(strconv.FormatUint(m.ID, 10)+":") +
			" " + styles.MessageTextStyle.Render(flatten(m.Text))
		lines = append(lines, clip.Render(line))
	}

	lines = append(lines, f.inputBar(notice))
	return strings.Join(lines, "\n")
}

// inputBar draws the prompt, the content with a reversed cursor cell, and
// the notice right-aligned when it fits.
func (f Frame) inputBar(notice Notice) string {
	runes := []rune(f.Content)
	start := scrollStart(runes, f.Cursor, f.Width-runewidth.StringWidth(Prompt))
	shown := runes[start:]
	cur := f.Cursor - start

	var b strings.Builder
	b.WriteString(styles.InputBarStyle.Render(string(shown[:cur])))
	if cur < len(shown) {
		b.WriteString(styles.CursorStyle.Render(string(shown[cur])))
		b.WriteString(styles.InputBarStyle.Render(string(shown[cur+1:])))
	} else {
		b.WriteString(styles.CursorStyle.Render(" "))
	}
	left := styles.PromptStyle.Render(Prompt) + b.String()

	var right string
	if notice.Text != "" {
		style := styles.StatusWarnStyle
		switch {
		case notice.Error:
			style = styles.StatusErrorStyle
		case notice.Hint:
			style = styles.StatusHintStyle
		}
		right = style.Render(" " + flatten(notice.Text) + " ")
	}

	gap := f.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if right != "" && gap < 1 {
		right = ""
		gap = f.Width - lipgloss.Width(left)
	}
	if gap < 0 {
		gap = 0
	}

	bar := left + styles.InputBarStyle.Render(strings.Repeat(" ", gap)) + right
	return lipgloss.NewStyle().MaxWidth(f.Width).Render(bar)
}

// scrollStart picks the first rune to show so that the runes before the
// cursor plus the cursor cell fit in avail terminal cells.
func scrollStart(runes []rune, cursor, avail int) int {
	if cursor > len(runes) {
		cursor = len(runes)
	}
	need := 1
	if cursor < len(runes) {
		need = max(runewidth.RuneWidth(runes[cursor]), 1)
	}
	for _, r := range runes[:cursor] {
		need += runewidth.RuneWidth(r)
	}

	start := 0
	for start < cursor && need > avail {
		need -= runewidth.RuneWidth(runes[start])
		start++
	}
	return start
}
