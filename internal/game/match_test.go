package game

import "testing"

func TestMatchGuessIgnoresCaseAndWhitespace(t *testing.T) {
	cases := []struct {
		name       string
		guess      string
		hiddenWord string
		expect     bool
	}{
		{name: "exact", guess: "cat", hiddenWord: "cat", expect: true},
		{name: "uppercase guess", guess: "CAT", hiddenWord: "cat", expect: true},
		{name: "padded guess", guess: "  cat  ", hiddenWord: "cat", expect: true},
		{name: "plural is not the word", guess: "cats", hiddenWord: "cat", expect: false},
		{name: "substring is not the word", guess: "ca", hiddenWord: "cat", expect: false},
		{name: "empty guess", guess: "   ", hiddenWord: "cat", expect: false},
		{name: "unicode case fold", guess: "CAFÉ", hiddenWord: "café", expect: true},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := MatchGuess(testCase.guess, testCase.hiddenWord); got != testCase.expect {
				t.Fatalf("MatchGuess(%q, %q) = %v, want %v", testCase.guess, testCase.hiddenWord, got, testCase.expect)
			}
		})
	}
}

func TestContainsWordRequiresBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		word   string
		expect bool
	}{
		{name: "standalone", body: "the cat sat", word: "cat", expect: true},
		{name: "at start", body: "cat naps often", word: "cat", expect: true},
		{name: "at end", body: "I saw a cat", word: "cat", expect: true},
		{name: "embedded prefix", body: "the cats sat", word: "cat", expect: false},
		{name: "embedded suffix", body: "a tomcat slept", word: "cat", expect: false},
		{name: "case sensitive", body: "the Cat sat", word: "cat", expect: false},
		{name: "punctuation boundary", body: "look, cat!", word: "cat", expect: true},
		{name: "underscore is word byte", body: "cat_like reflexes", word: "cat", expect: false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := ContainsWord(testCase.body, testCase.word); got != testCase.expect {
				t.Fatalf("ContainsWord(%q, %q) = %v, want %v", testCase.body, testCase.word, got, testCase.expect)
			}
		})
	}
}

func TestMaskHiddenWordReplacesBoundedOccurrences(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		word   string
		expect string
	}{
		{
			name:   "single occurrence",
			body:   "the cat sat on the mat",
			word:   "cat",
			expect: "the ___ sat on the mat",
		},
		{
			name:   "multiple occurrences",
			body:   "cat chases cat",
			word:   "cat",
			expect: "___ chases ___",
		},
		{
			name:   "embedded occurrence preserved",
			body:   "the cat and the cats",
			word:   "cat",
			expect: "the ___ and the cats",
		},
		{
			name:   "case sensitive masking",
			body:   "Cat and cat",
			word:   "cat",
			expect: "Cat and ___",
		},
		{
			name:   "no occurrence",
			body:   "nothing to hide",
			word:   "cat",
			expect: "nothing to hide",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := MaskHiddenWord(testCase.body, testCase.word); got != testCase.expect {
				t.Fatalf("MaskHiddenWord(%q, %q) = %q, want %q", testCase.body, testCase.word, got, testCase.expect)
			}
		})
	}
}
