package speech

import (
	"context"
	"errors"
)

// ErrTranscriptionTimeout is returned when a transcription job does not
// reach the completed state within the polling budget. It is a transient
// failure: the caller reports it to the end user instead of crashing.
var ErrTranscriptionTimeout = errors.New("transcription did not complete within the polling budget")

// SpeakerLabel is one diarized utterance inside a transcription.
type SpeakerLabel struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

// Transcription is the standardized result of a speech-to-text call.
type Transcription struct {
	Text     string
	Speakers []*SpeakerLabel
}

// Transcriber converts one bounded audio clip into text. This is the only
// pipeline step that is fatal on failure: without a transcript there is
// nothing to respond to.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (*Transcription, error)
}

// ReplyGenerator produces the bot's conversational reply from a transcript
// and a short block of prior conversation context.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, transcript, contextBlock string) (string, error)
}

// Synthesizer converts reply text into raw audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
