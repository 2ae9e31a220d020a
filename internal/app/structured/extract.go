// Package structured pulls JSON payloads out of free-form model replies.
//
// Replies often wrap the JSON in explanatory prose, and sometimes contain
// bracketed prose ("[সূত্র: ...]") before the real payload. The scanner walks
// bracket depth while respecting JSON strings, so each candidate is a
// balanced block; candidates are tried in textual order and the first one
// that parses wins.
package structured

import (
	"encoding/json"
	"errors"
	"iter"
	"sort"
	"strings"
)

var errTrailingData = errors.New("trailing data after JSON value")

// Extract returns the first JSON array or object embedded in text, decoded
// into generic Go values. It returns nil when nothing parses.
func Extract(text string) any {
	for raw := range candidates(text) {
		var v any
		if err := decode(raw, &v); err == nil {
			return v
		}
	}
	return nil
}

// ExtractList decodes the first JSON array in text that fits []T and is
// non-empty.
func ExtractList[T any](text string) ([]T, bool) {
	for raw := range candidates(text) {
		if raw[0] != '[' {
			continue
		}
		var out []T
		if err := decode(raw, &out); err == nil && len(out) > 0 {
			return out, true
		}
	}
	return nil, false
}

// decode reads one value from raw and stops at the first syntax error
// without copying the whole block.
func decode(raw string, v any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.InputOffset() != int64(len(raw)) {
		return errTrailingData
	}
	return nil
}

// candidates yields balanced [...] or {...} blocks by start offset. The text
// is walked once with a stack of open brackets. A block nested in a still
// open bracket is held back until that bracket closes or can no longer
// close, so an outer block is always yielded before the blocks inside it.
func candidates(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		type span struct{ start, end int }
		var (
			stack    []int
			pending  []span
			inString bool
			escaped  bool
		)
		flush := func(first *span) bool {
			if first != nil && !yield(text[first.start:first.end+1]) {
				return false
			}
			sort.Slice(pending, func(a, b int) bool { return pending[a].start < pending[b].start })
			for _, sp := range pending {
				if !yield(text[sp.start : sp.end+1]) {
					return false
				}
			}
			pending = pending[:0]
			return true
		}

		for i := 0; i < len(text); i++ {
			c := text[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}
				continue
			}
			switch c {
			case '"':
				// Quotes only matter inside a block; prose outside may hold stray ones.
				inString = len(stack) > 0
			case '[', '{':
				stack = append(stack, i)
			case ']', '}':
				if len(stack) == 0 || !matches(text[stack[len(stack)-1]], c) {
					// Every open bracket is now unclosable.
					stack = stack[:0]
					if !flush(nil) {
						return
					}
					continue
				}
				sp := span{start: stack[len(stack)-1], end: i}
				stack = stack[:len(stack)-1]
				if len(stack) > 0 {
					pending = append(pending, sp)
					continue
				}
				if !flush(&sp) {
					return
				}
			}
		}
		flush(nil)
	}
}

func matches(opening, closing byte) bool {
	return (opening == '[' && closing == ']') || (opening == '{' && closing == '}')
}
