package fitkit

import (
	"sort"
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
		"for", "of", "is", "it", "that", "this", "with", "as", "by",
		"from", "was", "were", "are", "be", "been", "has", "have", "had",
		"not", "no", "do", "does", "did", "will", "would", "could",
		"should", "can", "may", "might", "if", "then", "than", "so",
		"up", "out", "about", "into", "over", "after", "before",
		"between", "through", "just", "also", "very", "more", "most",
		"some", "any", "each", "every", "all", "both", "few", "other",
		"such", "only", "own", "same", "too", "how", "what", "which",
		"who", "when", "where", "why",
	} {
		stopwords[w] = struct{}{}
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// NormalizeTokens splits text on whitespace, strips edge punctuation
// from each token, lowercases, and drops tokens that end up empty.
func NormalizeTokens(text string) []string {
	raw := strings.Fields(text)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimFunc(t, func(r rune) bool {
			return !isWordRune(r)
		}))
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// TokenIDs maps tokens to dense integer ids. The returned base is one
// past the largest id, suitable for polynomial n-gram hashing.
func TokenIDs(tokens []string) (ids []int, base uint64) {
	vocab := make(map[string]int, len(tokens))
	ids = make([]int, len(tokens))
	for i, t := range tokens {
		id, ok := vocab[t]
		if !ok {
			id = len(vocab)
			vocab[t] = id
		}
		ids[i] = id
	}
	return ids, uint64(len(vocab)) + 1
}

// HasRepeatedNgramPrefix reports whether any n-gram of token ids
// occurs at least minCount times. Keys are rolling polynomial hashes
// over uint64; a wraparound collision can only produce a false
// positive, which merely fails to skip the full scan.
func HasRepeatedNgramPrefix(tokenIDs []int, base uint64, n, minCount int) bool {
	if n < 1 || len(tokenIDs) < n {
		return false
	}
	if minCount < 2 {
		return true
	}

	end := len(tokenIDs) - n + 1
	counts := make(map[uint64]int, end)
	for start := 0; start < end; start++ {
		var key uint64
		for offset := 0; offset < n; offset++ {
			key = key*base + uint64(tokenIDs[start+offset])
		}
		counts[key]++
		if counts[key] >= minCount {
			return true
		}
	}
	return false
}

// NgramHit is one repeated phrase surviving maximal-span suppression.
type NgramHit struct {
	Phrase string
	Count  int
	N      int
}

// FindRepeatedNgrams counts n-grams of length minN..maxN over the
// tokens, discards those below minCount or made entirely of stopwords,
// and suppresses any shorter n-gram contained in a longer one with an
// equal or higher count. Results are ordered by length then count,
// both descending.
func FindRepeatedNgrams(tokens []string, minN, maxN, minCount int) []NgramHit {
	if len(tokens) < minN {
		return nil
	}

	counts := make(map[string]int)
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			counts[strings.Join(tokens[i:i+n], " ")]++
		}
	}

	type gram struct {
		phrase string
		count  int
		n      int
	}
	repeated := make([]gram, 0)
	for phrase, count := range counts {
		if count < minCount {
			continue
		}
		words := strings.Split(phrase, " ")
		allStop := true
		for _, w := range words {
			if _, ok := stopwords[w]; !ok {
				allStop = false
				break
			}
		}
		if allStop {
			continue
		}
		repeated = append(repeated, gram{phrase: phrase, count: count, n: len(words)})
	}
	if len(repeated) == 0 {
		return nil
	}

	sort.Slice(repeated, func(i, j int) bool {
		if repeated[i].n != repeated[j].n {
			return repeated[i].n > repeated[j].n
		}
		if repeated[i].count != repeated[j].count {
			return repeated[i].count > repeated[j].count
		}
		return repeated[i].phrase < repeated[j].phrase
	})

	removed := make(map[string]struct{})
	for i, longer := range repeated {
		for _, shorter := range repeated[i+1:] {
			if _, gone := removed[shorter.phrase]; gone {
				continue
			}
			if shorter.n < longer.n && longer.count >= shorter.count &&
				strings.Contains(longer.phrase, shorter.phrase) {
				removed[shorter.phrase] = struct{}{}
			}
		}
	}

	hits := make([]NgramHit, 0, len(repeated))
	for _, g := range repeated {
		if _, gone := removed[g.phrase]; gone {
			continue
		}
		hits = append(hits, NgramHit{Phrase: g.phrase, Count: g.count, N: g.n})
	}
	return hits
}
