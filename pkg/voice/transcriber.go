package voice

import "context"

// Transcriber converts captured audio into text. The actual speech-to-text
// service lives outside this backend; the parser only ever sees text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// NoopTranscriber is the placeholder used until an audio pipeline is wired
// in; the mobile client currently transcribes on-device and posts text.
type NoopTranscriber struct{}

func (NoopTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return "", nil
}
