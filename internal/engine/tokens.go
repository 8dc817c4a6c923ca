package engine

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// TokenEncoding is the BPE vocabulary used for transcript budgets (GPT-3).
const TokenEncoding = "r50k_base"

// charsPerToken approximates token counts when the BPE ranks cannot be loaded.
const charsPerToken = 4

var (
	bpeOnce sync.Once
	bpe     *tiktoken.Tiktoken
)

// tokenizer returns the shared encoder, or nil if it failed to load.
// Ranks are embedded by the offline loader, so no network access is needed.
func tokenizer() *tiktoken.Tiktoken {
	bpeOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
		enc, err := tiktoken.GetEncoding(TokenEncoding)
		if err != nil {
			slog.Warn("tokenizer: falling back to character estimate",
				slog.String("encoding", TokenEncoding), slog.Any("error", err))
			return
		}
		bpe = enc
	})
	return bpe
}

// CountTokens returns the number of BPE tokens in s.
func CountTokens(s string) int {
	if enc := tokenizer(); enc != nil {
		return len(enc.EncodeOrdinary(s))
	}
	return (len([]rune(s)) + charsPerToken - 1) / charsPerToken
}

// TruncateTokens returns the longest token prefix of s that fits in maxTokens.
// The cut may land mid-word; s is returned unchanged when it already fits.
func TruncateTokens(s string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	enc := tokenizer()
	if enc == nil {
		r := []rune(s)
		if len(r) <= maxTokens*charsPerToken {
			return s
		}
		return string(r[:maxTokens*charsPerToken])
	}
	ids := enc.EncodeOrdinary(s)
	if len(ids) <= maxTokens {
		return s
	}
	// A cut can land inside a multibyte rune; the partial tail is dropped.
	out := strings.ToValidUTF8(enc.Decode(ids[:maxTokens]), "")
	for n := maxTokens - 1; n > 0 && len(enc.EncodeOrdinary(out)) > maxTokens; n-- {
		out = strings.ToValidUTF8(enc.Decode(ids[:n]), "")
	}
	return out
}
