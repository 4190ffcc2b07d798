package port

import "context"

// Completer abstracts an AI text completion provider. Complete sends a
// text-only prompt; CompleteWithImage additionally attaches inline image
// bytes for vision-capable models.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}
