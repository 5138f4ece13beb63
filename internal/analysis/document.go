package analysis

import (
	"regexp"
	"strings"

	"github.com/slopguard/slopguard/internal/fitkit"
)

var (
	sentenceSplitRE  = regexp.MustCompile(`[.!?]["'”’)\]]*(?:\s|$)`)
	bulletLineRE     = regexp.MustCompile(`^\s*[-*]\s|^\s*\d+[.)]\s`)
	boldTermBulletRE = regexp.MustCompile(`^\s*(?:[-*]|\d+[.)])\s+\*\*[^*]+\*\*`)
)

// Document holds precomputed views of one text blob. Everything is
// derived once in FromText so detectors never re-split the text, and
// nothing is mutated afterwards.
type Document struct {
	Text               string
	LowerText          string
	Lines              []string
	Sentences          []string
	SentenceWordCounts []int
	WordCount          int

	// Per-line classifications, parallel to Lines.
	LineIsBullet         []bool
	LineIsBlockquote     []bool
	LineIsBoldTermBullet []bool

	// Prose-only view with fenced code blocks removed.
	TextWithoutCodeBlocks      string
	WordCountWithoutCodeBlocks int

	// Normalized token views for phrase-level detectors.
	WordTokenSet   map[string]struct{}
	NgramTokens    []string
	NgramTokenIDs  []int
	NgramTokenBase uint64
}

// FromText builds a document with all derived projections.
func FromText(text string) *Document {
	lines := strings.Split(text, "\n")
	sentences := splitSentences(text)
	wordCounts := make([]int, len(sentences))
	for i, s := range sentences {
		wordCounts[i] = WordCount(s)
	}

	isBullet := make([]bool, len(lines))
	isBlockquote := make([]bool, len(lines))
	isBoldTermBullet := make([]bool, len(lines))
	for i, line := range lines {
		isBullet[i] = bulletLineRE.MatchString(line)
		isBlockquote[i] = strings.HasPrefix(strings.TrimLeft(line, " \t"), ">")
		isBoldTermBullet[i] = boldTermBulletRE.MatchString(line)
	}

	stripped := stripCodeBlocks(lines)
	tokens := fitkit.NormalizeTokens(text)
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}
	tokenIDs, base := fitkit.TokenIDs(tokens)

	return &Document{
		Text:                       text,
		LowerText:                  strings.ToLower(text),
		Lines:                      lines,
		Sentences:                  sentences,
		SentenceWordCounts:         wordCounts,
		WordCount:                  WordCount(text),
		LineIsBullet:               isBullet,
		LineIsBlockquote:           isBlockquote,
		LineIsBoldTermBullet:       isBoldTermBullet,
		TextWithoutCodeBlocks:      stripped,
		WordCountWithoutCodeBlocks: WordCount(stripped),
		WordTokenSet:               tokenSet,
		NgramTokens:                tokens,
		NgramTokenIDs:              tokenIDs,
		NgramTokenBase:             base,
	}
}

func splitSentences(text string) []string {
	parts := sentenceSplitRE.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// stripCodeBlocks removes fenced code blocks, fence lines included.
func stripCodeBlocks(lines []string) string {
	kept := make([]string, 0, len(lines))
	inFence := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if !inFence {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// WordCount returns the whitespace-delimited word count of a text blob.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ContextAround extracts a snippet centered on the matched span,
// with newlines flattened and ellipses marking truncation.
func ContextAround(text string, start, end, width int) string {
	mid := (start + end) / 2
	half := width / 2
	ctxStart := mid - half
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := mid + half
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}
	snippet := strings.ReplaceAll(text[ctxStart:ctxEnd], "\n", " ")
	prefix := ""
	if ctxStart > 0 {
		prefix = "..."
	}
	suffix := ""
	if ctxEnd < len(text) {
		suffix = "..."
	}
	return prefix + snippet + suffix
}
