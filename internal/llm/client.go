package llm

import "context"

// Client is the provider-agnostic interface the extraction layer uses.
type Client interface {
	// Generate runs a plain text completion.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateVision runs a completion over a prompt plus one page
	// image. mimeType is the image media type (image/png, image/jpeg).
	GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}
