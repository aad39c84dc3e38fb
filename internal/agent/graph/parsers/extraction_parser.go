package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deskbot-poc/server/internal/agent/model"
)

// maxExtractionLen guards against pathological model output.
const maxExtractionLen = 16 * 1024

type searchExtraction struct {
	Column *string `json:"column"`
	Value  *string `json:"value"`
}

type mailExtraction struct {
	RecipientName  *string `json:"recipient_name"`
	RecipientEmail *string `json:"recipient_email"`
	MessageBody    *string `json:"message_body"`
}

// ParseSearchExtraction decodes the structured (column, value) extraction.
// Null or absent fields come back as empty strings; the caller decides
// whether an empty field means a clarification question.
func ParseSearchExtraction(content string) (model.SearchQuery, error) {
	var raw searchExtraction
	if err := decodeExtraction(content, &raw); err != nil {
		return model.SearchQuery{}, err
	}
	return model.SearchQuery{
		Column: deref(raw.Column),
		Value:  deref(raw.Value),
	}, nil
}

// ParseMailExtraction decodes the structured recipient/body extraction.
func ParseMailExtraction(content string) (model.MailFields, error) {
	var raw mailExtraction
	if err := decodeExtraction(content, &raw); err != nil {
		return model.MailFields{}, err
	}
	return model.MailFields{
		RecipientName:  deref(raw.RecipientName),
		RecipientEmail: deref(raw.RecipientEmail),
		MessageBody:    deref(raw.MessageBody),
	}, nil
}

func decodeExtraction(content string, out any) error {
	s := StripCodeFence(content)
	if len(s) > maxExtractionLen {
		return fmt.Errorf("extraction output too large: %d bytes", len(s))
	}
	if !strings.HasPrefix(strings.TrimSpace(s), "{") {
		return fmt.Errorf("extraction output is not a json object")
	}
	if err := json.Unmarshal([]byte(s), out); err != nil {
		return fmt.Errorf("decode extraction: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	// models occasionally emit the literal string "null" for missing fields
	if strings.EqualFold(v, "null") {
		return ""
	}
	return v
}
