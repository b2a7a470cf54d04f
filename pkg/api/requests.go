package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

type Role string

const (
	User           Role = "user"
	Assistant      Role = "assistant"
	System         Role = "system"
	ModelAssistant Role = "model"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role    `json:"role" binding:"required,oneof=user assistant system"`
	Content Content `json:"content"`
}

// Content handles the union type: string | []ContentPart
type Content struct {
	Text  string
	Parts []ContentPart
}

// Text builds a plain string message.
func Text(role Role, text string) Message {
	return Message{Role: role, Content: Content{Text: text}}
}

// ErrInvalidContent rejects content that is neither a string nor an array of
// parts.
var ErrInvalidContent = errors.New("content must be a string or an array of parts")

func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &c.Text)
	case '[':
		return json.Unmarshal(data, &c.Parts)
	}
	return ErrInvalidContent
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.Parts != nil {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// String flattens the content into plain text. Text parts are joined with a
// newline; non-text parts are dropped.
func (c Content) String() string {
	if len(c.Parts) == 0 {
		return c.Text
	}
	texts := make([]string, 0, len(c.Parts))
	for _, p := range c.Parts {
		if p.Type == PartText && p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

const (
	PartText     = "text"
	PartImageURL = "image_url"
)

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// GenerationOptions are caller overrides for one request. Params keys are
// logical parameter names from the model's parameter schema.
type GenerationOptions struct {
	Model  string         `json:"model,omitempty"`
	Params map[string]any `json:"params,omitempty"`
	Stream bool           `json:"stream,omitempty"`
	Stop   []string       `json:"stop,omitempty"`
}

// ImageOptions are caller overrides for image generation.
type ImageOptions struct {
	Model             string `json:"model,omitempty"`
	Count             int    `json:"count,omitempty"`
	AspectRatio       string `json:"aspect_ratio,omitempty"`
	PersonGeneration  string `json:"person_generation,omitempty"`
	SafetyFilterLevel string `json:"safety_filter_level,omitempty"`
	Quality           string `json:"quality,omitempty"`
}
