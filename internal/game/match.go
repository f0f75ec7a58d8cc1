package game

import "strings"

// maskPlaceholder replaces hidden word occurrences in fill-blank previews.
const maskPlaceholder = "___"

// MatchGuess reports whether a candidate guess hits the hidden word.
// Comparison trims surrounding whitespace and ignores case but requires the
// entire hidden word: "cat" never matches "cats". Word boundaries follow the
// ASCII \w class; non-ASCII hidden words compare by full case-folded equality.
func MatchGuess(guess, hiddenWord string) bool {
	trimmed := strings.TrimSpace(guess)
	if trimmed == "" || hiddenWord == "" {
		return false
	}
	return strings.EqualFold(trimmed, hiddenWord)
}

// ContainsWord reports whether word occurs case-sensitively in body with word
// boundaries on both sides. Used when authors publish fill-blank games: the
// hidden word must be findable so the mask has something to cover.
func ContainsWord(body, word string) bool {
	return len(wordOccurrences(body, word)) > 0
}

// MaskHiddenWord replaces every word-bounded, case-sensitive occurrence of
// word in body with the blank placeholder. Occurrences embedded in longer
// words are left intact, mirroring how the text is shown to players.
func MaskHiddenWord(body, word string) string {
	occurrences := wordOccurrences(body, word)
	if len(occurrences) == 0 {
		return body
	}

	var builder strings.Builder
	builder.Grow(len(body))
	previous := 0
	for _, start := range occurrences {
		builder.WriteString(body[previous:start])
		builder.WriteString(maskPlaceholder)
		previous = start + len(word)
	}
	builder.WriteString(body[previous:])
	return builder.String()
}

// wordOccurrences returns the byte offsets of word-bounded matches of word in body.
func wordOccurrences(body, word string) []int {
	if word == "" || body == "" {
		return nil
	}

	var offsets []int
	searchFrom := 0
	for {
		index := strings.Index(body[searchFrom:], word)
		if index < 0 {
			return offsets
		}
		start := searchFrom + index
		end := start + len(word)
		if boundaryBefore(body, start) && boundaryAfter(body, end) {
			offsets = append(offsets, start)
			searchFrom = end
		} else {
			searchFrom = start + 1
		}
	}
}

func boundaryBefore(body string, start int) bool {
	if start == 0 {
		return true
	}
	return !isWordByte(body[start-1])
}

func boundaryAfter(body string, end int) bool {
	if end >= len(body) {
		return true
	}
	return !isWordByte(body[end])
}

// isWordByte mirrors the ASCII \w class used by the original masking regex.
func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_':
		return true
	default:
		return false
	}
}

// isWordSeparator reports whether the rune would split a hidden word in two.
func isWordSeparator(r rune) bool {
	if r > 0x7F {
		return false
	}
	return !isWordByte(byte(r))
}
