// Package tokencount estimates token counts for outgoing prompts.
//
// It uses tiktoken-go so prompt-size guards and usage logs are based on
// real tokenizer output rather than character-length guesses. The
// cl100k_base encoding is an approximation for the Gemini tokenizer but
// close enough for guarding and logging.
package tokencount

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

// Counter provides thread-safe token counting.
type Counter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// NewCounter creates a Counter. The encoding is loaded lazily on first use.
func NewCounter() *Counter { return &Counter{} }

func (c *Counter) load() {
	c.once.Do(func() {
		c.enc, c.err = tiktoken.GetEncoding(encodingName)
	})
}

// Count returns the token count for text. When the encoding cannot be
// loaded it falls back to a chars/4 approximation.
func (c *Counter) Count(text string) int {
	c.load()
	if c.err != nil || c.enc == nil {
		return (len(text) + 3) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Truncate cuts text to at most max tokens. When the encoding cannot
// be loaded it falls back to a rune cut at four characters per token.
func (c *Counter) Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	c.load()
	if c.err != nil || c.enc == nil {
		runes := []rune(text)
		if len(runes) <= max*4 {
			return text
		}
		return string(runes[:max*4])
	}
	ids := c.enc.Encode(text, nil, nil)
	if len(ids) <= max {
		return text
	}
	return c.enc.Decode(ids[:max])
}
