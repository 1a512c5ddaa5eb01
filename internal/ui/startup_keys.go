package ui

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
)

// applyKeys replays keys as if typed, draining the commands each key
// produces before the next. A leading backslash forces the whole token
// literal.
func applyKeys(d *driver, keys []string) {
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, `\`) {
			typeText(d, strings.TrimPrefix(token, `\`))
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isVimKey {
				typeText(d, segment.text)
				continue
			}
			msgs, ok := keyMsgsFromToken(segment.text)
			if !ok {
				typeText(d, segment.text)
				continue
			}
			for _, msg := range msgs {
				d.send(msg)
			}
		}
	}
}

func typeText(d *driver, text string) {
	for _, r := range text {
		d.send(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// tokenSegment is a run of literal text or one bracketed key name.
type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits "<F1>rwo" into the key "<F1>" and the text
// "rwo". An unclosed "<" is literal.
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	literal := func(s string) {
		if s != "" {
			segments = append(segments, tokenSegment{text: s})
		}
	}
	for token != "" {
		open := strings.IndexByte(token, '<')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(token[open:], '>')
		if closing < 0 {
			break
		}
		literal(token[:open])
		segments = append(segments, tokenSegment{text: token[open : open+closing+1], isVimKey: true})
		token = token[open+closing+1:]
	}
	literal(token)
	return segments
}

// keyMsgsFromToken parses a Vim-like token into key messages.
// Examples: "<Esc>", "<CR>", "<Tab>", "<S-Tab>", "<Space>", "<BS>", "<C-s>", "<F3>".
// Only <...> forms are treated as keys; everything else is literal text.
func keyMsgsFromToken(token string) ([]tea.KeyPressMsg, bool) {
	if token == "" {
		return nil, false
	}
	if strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">") {
		inner := strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
		lower := strings.ToLower(inner)
		switch lower {
		case "esc", "c-[", "escape":
			return []tea.KeyPressMsg{{Code: tea.KeyEscape}}, true
		case "cr", "enter", "return":
			return []tea.KeyPressMsg{{Code: tea.KeyEnter}}, true
		case "tab":
			return []tea.KeyPressMsg{{Code: tea.KeyTab}}, true
		case "s-tab", "backtab":
			return []tea.KeyPressMsg{{Code: tea.KeyTab, Mod: tea.ModShift}}, true
		case "space":
			return []tea.KeyPressMsg{{Code: ' ', Text: " "}}, true
		case "bs", "backspace":
			return []tea.KeyPressMsg{{Code: tea.KeyBackspace}}, true
		case "left":
			return []tea.KeyPressMsg{{Code: tea.KeyLeft}}, true
		case "right":
			return []tea.KeyPressMsg{{Code: tea.KeyRight}}, true
		case "up":
			return []tea.KeyPressMsg{{Code: tea.KeyUp}}, true
		case "down":
			return []tea.KeyPressMsg{{Code: tea.KeyDown}}, true
		case "pgup", "pageup":
			return []tea.KeyPressMsg{{Code: tea.KeyPgUp}}, true
		case "pgdown", "pagedown":
			return []tea.KeyPressMsg{{Code: tea.KeyPgDown}}, true
		case "home":
			return []tea.KeyPressMsg{{Code: tea.KeyHome}}, true
		case "end":
			return []tea.KeyPressMsg{{Code: tea.KeyEnd}}, true
		}
		if rest, ok := strings.CutPrefix(lower, "c-"); ok && len(rest) == 1 && rest[0] >= 'a' && rest[0] <= 'z' {
			return []tea.KeyPressMsg{{Code: rune(rest[0]), Mod: tea.ModCtrl}}, true
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(lower, "f")); err == nil && strings.HasPrefix(lower, "f") && n >= 1 && n <= len(functionKeys) {
			return []tea.KeyPressMsg{{Code: functionKeys[n-1]}}, true
		}
		return nil, false
	}
	return nil, false
}

var functionKeys = []rune{
	tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5, tea.KeyF6,
	tea.KeyF7, tea.KeyF8, tea.KeyF9, tea.KeyF10, tea.KeyF11, tea.KeyF12,
}
