package assistant

import "unicode"

const baseTokenCost = 10

// EstimateTokens approximates the provider tokenizer without shipping one:
// CJK ideographs count one token per rune, everything else averages four
// characters per token.
func EstimateTokens(s string) int {
	cjk := 0
	other := 0
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) {
			cjk++
		} else if !unicode.IsSpace(r) {
			other++
		}
	}
	tokens := cjk + (other+3)/4
	return tokens
}

// TokenCost is computed once when a writing task is created and never
// changes afterwards.
func TokenCost(content string) int {
	return baseTokenCost + EstimateTokens(content)
}
