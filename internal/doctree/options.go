package doctree

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dgallion1/wikidoc/internal/wikierr"
)

const (
	// DefaultMaxBytes is the bounded pipeline's input ceiling.
	DefaultMaxBytes = 4096
	// DefaultMaxSentences is the bounded summary's sentence count.
	DefaultMaxSentences = 5
	// MaxBytesCeiling is the largest accepted MaxBytes.
	MaxBytesCeiling = 8 << 20

	maxSentencesCeiling = 1000
)

// Options controls a single parse call. Zero values select defaults.
type Options struct {
	Title        string `json:"title,omitempty"`
	MaxBytes     int    `json:"maxBytes,omitempty"`
	MaxSentences int    `json:"maxSentences,omitempty"`
}

// Validate rejects out-of-range options with wikierr.ErrInvalidInput.
func (o Options) Validate() error {
	err := validation.ValidateStruct(&o,
		validation.Field(&o.Title, validation.Length(0, 512)),
		validation.Field(&o.MaxBytes, validation.Min(0), validation.Max(MaxBytesCeiling)),
		validation.Field(&o.MaxSentences, validation.Min(0), validation.Max(maxSentencesCeiling)),
	)
	if err != nil {
		return fmt.Errorf("%w: options: %v", wikierr.ErrInvalidInput, err)
	}
	return nil
}

// Bytes returns MaxBytes or its default.
func (o Options) Bytes() int {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

// Sentences returns MaxSentences or its default.
func (o Options) Sentences() int {
	if o.MaxSentences <= 0 {
		return DefaultMaxSentences
	}
	return o.MaxSentences
}
