package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coenradina/splitbill/internal/models"
)

// parseItemsJSON parses the JSON item array out of a model response.
// Gemini tends to wrap JSON in markdown code fences and occasionally
// adds prose around it, so we locate the array boundaries first.
func parseItemsJSON(text string) ([]models.LineItem, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "[")
	endIdx := strings.LastIndex(text, "]")
	if startIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no JSON array found in response")
	}
	text = text[startIdx : endIdx+1]

	var raw []models.LineItem
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling items: %w", err)
	}

	items := make([]models.LineItem, 0, len(raw))
	for _, it := range raw {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" || it.UnitPrice < 0 {
			continue
		}
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no usable line items in response")
	}
	return items, nil
}
