package engine

import (
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// DefaultMaxTokens is the transcript budget sent to the generation provider.
const DefaultMaxTokens = 4000

// User-Agent strings used across HTTP clients.
const (
	UserAgentBot    = "GoClip/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// markupHazards are stripped so transcript text can't smuggle markup downstream.
// This is not a sanitizer.
var markupHazards = strings.NewReplacer("<", "", ">", "", "&", "", "'", "", `"`, "")

// Normalize cleans transcript text and caps it at maxTokens BPE tokens.
// It removes < > & ' ", collapses whitespace runs to one space and trims.
// A non-positive maxTokens means DefaultMaxTokens. Never fails.
func Normalize(text string, maxTokens int) string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	text = markupHazards.Replace(text)
	text = strings.Join(strings.Fields(text), " ")
	return TruncateTokens(text, maxTokens)
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
