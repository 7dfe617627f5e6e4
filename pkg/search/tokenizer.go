package search

import (
	"slices"
	"unicode"
)

type Token string

type Tokenizer struct {
	MaxTokens int
}

type TokenList []Token

func (t *TokenList) AddToken(token Token) {
	if slices.Contains(*t, token) {
		return
	}
	*t = append(*t, token)
}

var commonIssues = map[rune]rune{
	'ö': 'o',
	'ä': 'a',
	'å': 'a',
	'é': 'e',
	'è': 'e',
	'ê': 'e',
	'ë': 'e',
	'ï': 'i',
	'î': 'i',
	'ô': 'o',
	'ü': 'u',
	'û': 'u',
	'ÿ': 'y',
	'ç': 'c',
	'ñ': 'n',
	'ß': 's',
	'æ': 'a',
	'ø': 'o',
	'Ø': 'o',
}

// NormalizeWord lowercases, strips non letter/digit runes and folds common
// accented characters so "Écran" and "ecran" produce the same token.
func NormalizeWord(text string) Token {
	ret := make([]rune, 0, len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			l := unicode.ToLower(r)
			if replacement, ok := commonIssues[l]; ok {
				l = replacement
			}
			ret = append(ret, l)
		}
	}
	return Token(ret)
}

func isSplit(chr rune) bool {
	switch chr {
	case ' ', '\n', '\t', ',', ':', '.', '!', '?', ';', '(', ')', '[', ']', '{', '}', '"', '\'', '/', '-':
		return true
	}
	return false
}

// Tokenize returns the normalized, de-duplicated tokens of a text, capped at
// MaxTokens, in order of first occurrence.
func (t *Tokenizer) Tokenize(text string) TokenList {
	tokens := make(TokenList, 0, 8)
	lastSplit := 0
	add := func(word string) bool {
		normalized := NormalizeWord(word)
		if len(normalized) > 0 {
			tokens.AddToken(normalized)
		}
		return t.MaxTokens <= 0 || len(tokens) < t.MaxTokens
	}
	for idx, chr := range text {
		if isSplit(chr) {
			if idx > lastSplit {
				if !add(text[lastSplit:idx]) {
					return tokens
				}
			}
			lastSplit = idx + len(string(chr))
		}
	}
	if lastSplit < len(text) {
		add(text[lastSplit:])
	}
	return tokens
}
