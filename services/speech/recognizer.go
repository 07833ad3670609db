// Package speech turns spoken audio into search text. A Recognizer streams
// interim and final transcripts; the Adapter layers the listening state
// machine on top.
package speech

import (
	"context"
	"errors"
	"io"

	"lokai/models"
)

var (
	ErrUnsupported      = errors.New("speech recognition not supported")
	ErrPermissionDenied = errors.New("microphone permission denied")
	ErrClosed           = errors.New("speech adapter closed")
)

// Result is one recognition hypothesis. Interim results may be revised;
// a Final result is definitive for the utterance.
type Result struct {
	Transcript string
	Final      bool
}

// ResultStream yields results until io.EOF or an engine error.
type ResultStream interface {
	Recv() (Result, error)
}

// Recognizer is the platform speech capability.
type Recognizer interface {
	Supported() bool
	Recognize(ctx context.Context, lang models.LanguageCode, audio io.Reader) (ResultStream, error)
}

// Unsupported is the null Recognizer.
type Unsupported struct{}

func (Unsupported) Supported() bool { return false }

func (Unsupported) Recognize(context.Context, models.LanguageCode, io.Reader) (ResultStream, error) {
	return nil, ErrUnsupported
}
