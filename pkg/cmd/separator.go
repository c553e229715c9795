package cmd

import (
	"regexp"
	"strings"

	"github.com/google/shlex"
)

type separatorKind int

const (
	sepWhitespace separatorKind = iota
	sepNone
	sepLiteral
	sepPattern
	sepShell
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Separator is the tokenization policy of a command's residual text.
// The zero value splits on runs of whitespace.
type Separator struct {
	kind    separatorKind
	literal string
	re      *regexp.Regexp
}

var (
	// Whitespace splits on one or more whitespace characters.
	Whitespace = Separator{kind: sepWhitespace}
	// NoSplit keeps the whole residual text as a single argument.
	NoSplit = Separator{kind: sepNone}
	// Shell splits like a POSIX shell, so "quoted words" stay together.
	Shell = Separator{kind: sepShell}
)

// Literal splits on every occurrence of s. An empty s behaves like NoSplit.
func Literal(s string) Separator {
	if s == "" {
		return NoSplit
	}
	return Separator{kind: sepLiteral, literal: s}
}

// Pattern splits on every match of the regular expression expr.
// It panics if expr does not compile, like regexp.MustCompile.
func Pattern(expr string) Separator {
	return Separator{kind: sepPattern, re: regexp.MustCompile(expr)}
}

func (s Separator) String() string {
	switch s.kind {
	case sepNone:
		return "none"
	case sepLiteral:
		return "literal(" + s.literal + ")"
	case sepPattern:
		return "pattern(" + s.re.String() + ")"
	case sepShell:
		return "shell"
	default:
		return "whitespace"
	}
}

// Tokenize splits text into positional argument strings.
//
// With lastArgIsText set and more pieces than argCount, the final slot receives the
// rest of the original text from the start of its piece, separators included.
// Empty text yields no tokens, so absent arguments stay absent instead of binding "".
func Tokenize(text string, sep Separator, lastArgIsText bool, argCount int) []string {
	switch sep.kind {
	case sepNone:
		if text == "" {
			return nil
		}
		return []string{text}
	case sepShell:
		return tokenizeShell(text, lastArgIsText, argCount)
	case sepWhitespace:
		text = strings.TrimSpace(text)
	}
	if text == "" {
		return nil
	}

	var bounds [][]int
	switch sep.kind {
	case sepWhitespace:
		bounds = whitespaceRe.FindAllStringIndex(text, -1)
	case sepPattern:
		bounds = sep.re.FindAllStringIndex(text, -1)
	case sepLiteral:
		bounds = literalIndexes(text, sep.literal)
	}

	// piece i spans [starts[i], ends[i])
	starts := []int{0}
	ends := []int{}
	for _, b := range bounds {
		if b[0] == b[1] {
			continue
		}
		ends = append(ends, b[0])
		starts = append(starts, b[1])
	}
	ends = append(ends, len(text))

	n := len(starts)
	if lastArgIsText && argCount > 0 && n > argCount {
		n = argCount
		ends[n-1] = len(text)
	}

	tokens := make([]string, n)
	for i := 0; i < n; i++ {
		tokens[i] = text[starts[i]:ends[i]]
	}
	return tokens
}

func literalIndexes(text, sep string) [][]int {
	var out [][]int
	offset := 0
	for {
		i := strings.Index(text[offset:], sep)
		if i < 0 {
			return out
		}
		start := offset + i
		out = append(out, []int{start, start + len(sep)})
		offset = start + len(sep)
	}
}

func tokenizeShell(text string, lastArgIsText bool, argCount int) []string {
	tokens, err := shlex.Split(text)
	if err != nil {
		// unbalanced quotes fall back to plain whitespace splitting
		return Tokenize(text, Whitespace, lastArgIsText, argCount)
	}
	if len(tokens) == 0 {
		return nil
	}
	if lastArgIsText && argCount > 0 && len(tokens) > argCount {
		tail := strings.Join(tokens[argCount-1:], " ")
		tokens = append(tokens[:argCount-1], tail)
	}
	return tokens
}
