// Package extraction is the thin collaborator that turns page images
// into raw event records via the configured LLM, and derives the term
// anchor the resolver needs. The model is treated as unreliable: its
// output is defensively parsed and never retried.
package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursecal/coursecal/internal/config"
	"github.com/coursecal/coursecal/internal/core/common"
	"github.com/coursecal/coursecal/internal/core/model"
	"github.com/coursecal/coursecal/internal/llm"
)

type Extractor struct {
	LLM    llm.Client
	Prompt string
}

func NewExtractor(llmClient llm.Client, cfg config.ExtractionConfig) *Extractor {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Extractor{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

// ExtractPage sends one page image to the model and parses the returned
// JSON array into raw events. Items that are not objects or have no
// title are skipped rather than failing the page.
func (e *Extractor) ExtractPage(ctx context.Context, image []byte, mimeType string) ([]model.RawEvent, error) {
	response, err := e.LLM.GenerateVision(ctx, e.Prompt, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate events: %w", err)
	}

	return ParseEvents(response)
}

// ExtractText sends pre-extracted page text (an OCR pass or a PDF text
// layer) to the model and parses the result the same way as an image
// page.
func (e *Extractor) ExtractText(ctx context.Context, text string) ([]model.RawEvent, error) {
	response, err := e.LLM.Generate(ctx, e.Prompt+"\n\nPAGE TEXT:\n"+text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate events: %w", err)
	}

	return ParseEvents(response)
}

// ParseEvents recovers the raw event list from a model response.
func ParseEvents(response string) ([]model.RawEvent, error) {
	items, err := common.ParseJSONArray[model.RawEvent](response)
	if err != nil {
		return nil, fmt.Errorf("failed to extract events: %w", err)
	}

	events := make([]model.RawEvent, 0, len(items))
	for _, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		if item.Title == "" {
			continue
		}
		events = append(events, item)
	}
	return events, nil
}
