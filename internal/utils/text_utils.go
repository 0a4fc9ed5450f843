package utils

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TextProcessor prepares report digests for LLM prompts
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText limits text to maxSize bytes. The cut backs up to the last
// complete line so a digest never ends halfway through a contract, and a
// marker records how many lines were left out
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	kept := text[:maxSize]
	if i := strings.LastIndexByte(kept, '\n'); i >= 0 {
		kept = kept[:i+1]
	} else {
		// a single oversized line; cut on a rune boundary instead
		for !utf8.ValidString(kept) && len(kept) > 0 {
			kept = kept[:len(kept)-1]
		}
	}

	rest := text[len(kept):]
	omitted := strings.Count(rest, "\n")
	if !strings.HasSuffix(rest, "\n") {
		omitted++
	}
	if !strings.HasSuffix(kept, "\n") {
		kept += "\n"
	}

	tp.logger.Debug("Digest truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(kept)),
		zap.Int("max_size", maxSize),
		zap.Int("omitted_lines", omitted))

	return kept + fmt.Sprintf("[... %d more lines omitted ...]", omitted)
}

// SanitizeText drops invalid UTF-8 and control characters other than
// newlines and tabs. Record fields come from arbitrary files
func (tp *TextProcessor) SanitizeText(text string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r == utf8.RuneError || unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.ToValidUTF8(text, ""))

	if len(clean) != len(text) {
		tp.logger.Debug("Text sanitized",
			zap.Int("original_size", len(text)),
			zap.Int("sanitized_size", len(clean)))
	}
	return clean
}

// ProcessText sanitizes then truncates text
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.TruncateText(tp.SanitizeText(text), maxSize)
}
