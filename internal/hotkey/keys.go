// Package hotkey implements the global push-to-talk hotkey: a canonical
// key vocabulary, a combination state machine, interactive capture flows,
// and a gohook-backed monitor that feeds them OS key events.
package hotkey

import (
	"sort"
	"strings"
	"unicode"
)

// canon maps recognized key names to their canonical spelling. Aliases
// cover the names different hook backends report for the same key.
var canon = map[string]string{
	"caps_lock":    "caps_lock",
	"capslock":     "caps_lock",
	"caps":         "caps_lock",
	"scroll_lock":  "scroll_lock",
	"scrolllock":   "scroll_lock",
	"pause":        "pause",
	"break":        "pause",
	"insert":       "insert",
	"ins":          "insert",
	"home":         "home",
	"end":          "end",
	"page_up":      "page_up",
	"pageup":       "page_up",
	"pgup":         "page_up",
	"page_down":    "page_down",
	"pagedown":     "page_down",
	"pgdn":         "page_down",
	"ctrl":         "ctrl",
	"control":      "ctrl",
	"ctrl_l":       "ctrl_l",
	"lctrl":        "ctrl_l",
	"ctrl_r":       "ctrl_r",
	"rctrl":        "ctrl_r",
	"alt":          "alt",
	"option":       "alt",
	"alt_l":        "alt_l",
	"lalt":         "alt_l",
	"alt_r":        "alt_r",
	"ralt":         "alt_r",
	"shift":        "shift",
	"shift_l":      "shift_l",
	"lshift":       "shift_l",
	"shift_r":      "shift_r",
	"rshift":       "shift_r",
	"cmd":          "cmd",
	"command":      "cmd",
	"super":        "cmd",
	"win":          "cmd",
	"meta":         "cmd",
	"cmd_l":        "cmd_l",
	"lcmd":         "cmd_l",
	"lwin":         "cmd_l",
	"cmd_r":        "cmd_r",
	"rcmd":         "cmd_r",
	"rwin":         "cmd_r",
	"space":        "space",
	"spacebar":     "space",
	"tab":          "tab",
	"enter":        "enter",
	"return":       "enter",
	"backspace":    "backspace",
	"back":         "backspace",
	"delete":       "delete",
	"del":          "delete",
	"esc":          "esc",
	"escape":       "esc",
	"up":           "up",
	"down":         "down",
	"left":         "left",
	"right":        "right",
	"print_screen": "print_screen",
	"printscreen":  "print_screen",
	"num_lock":     "num_lock",
	"numlock":      "num_lock",
	"menu":         "menu",
	"apps":         "menu",
}

func init() {
	for _, f := range []string{"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12"} {
		canon[f] = f
	}
}

// Canonical returns the canonical form of a key name, or "" when the key
// is not recognized. Single printable characters lowercase to themselves.
func Canonical(raw string) string {
	k := strings.ToLower(strings.TrimSpace(raw))
	if k == "" {
		return ""
	}
	if c, ok := canon[k]; ok {
		return c
	}
	if r := []rune(k); len(r) == 1 && unicode.IsPrint(r[0]) && !unicode.IsSpace(r[0]) {
		return k
	}
	return ""
}

// Parse converts a spec such as "ctrl_l+f1" into canonical keys.
// Unrecognized parts are dropped so a partially valid spec still yields a
// usable subset. An empty result means the hotkey is disabled.
func Parse(spec string) []string {
	var keys []string
	for _, part := range strings.Split(spec, "+") {
		if c := Canonical(part); c != "" {
			keys = append(keys, c)
		}
	}
	return keys
}

// Join renders canonical keys back into machine spec form.
func Join(keys []string) string {
	return strings.Join(keys, "+")
}

// Format renders a spec for display: "ctrl_l+f1" becomes "Ctrl L + F1".
func Format(spec string) string {
	var out []string
	for _, part := range strings.Split(spec, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		words := strings.Split(part, "_")
		for i, w := range words {
			words[i] = titleWord(w)
		}
		out = append(out, strings.Join(words, " "))
	}
	return strings.Join(out, " + ")
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// SortCombo orders keys the way captured combos are spelled: ctrl keys
// first, then alt, then shift, then everything else, preserving the order
// keys were pressed within each group.
func SortCombo(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	rank := func(k string) int {
		switch {
		case strings.Contains(k, "ctrl"):
			return 0
		case strings.Contains(k, "alt"):
			return 1
		case strings.Contains(k, "shift"):
			return 2
		}
		return 3
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}
