package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/coenradina/splitbill/internal/models"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

const itemExtractionPrompt = `You are reading a photo of a restaurant or shop receipt.
Extract every purchased line item and respond with ONLY a JSON array, no prose:
[{"name": "<item description>", "qty": <integer count>, "price": <unit price as a number>}]
Use a qty of 1 when the receipt does not state one. Exclude tax, tip and total lines.`

// Gemini implements Extractor using the Google Gemini vision API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini-backed extractor.
func NewGemini(apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Extract sends the bill image to Gemini and parses the returned JSON
// item list. Absent input falls back to the sample items; any failure
// on a present image wraps ErrExtraction.
func (g *Gemini) Extract(ctx context.Context, image []byte, contentType string) ([]models.LineItem, error) {
	if len(image) == 0 {
		return SampleItems(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	parts := []genai.Part{
		genai.ImageData(imageFormat(contentType), image),
		genai.Text(itemExtractionPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("%w: generating content: %v", ErrExtraction, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response from gemini", ErrExtraction)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	items, err := parseItemsJSON(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return items, nil
}

// Close closes the underlying Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// imageFormat maps a MIME type to the bare format suffix genai expects
// ("image/jpeg" -> "jpeg"). Unknown types default to jpeg, the common
// case for phone camera uploads.
func imageFormat(contentType string) string {
	format := strings.TrimPrefix(strings.ToLower(contentType), "image/")
	switch format {
	case "png", "jpeg", "webp", "heic", "heif":
		return format
	case "jpg":
		return "jpeg"
	default:
		return "jpeg"
	}
}
