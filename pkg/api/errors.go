package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConfigurationError is returned when an adapter has no usable credentials.
type ConfigurationError struct {
	Provider ProviderName
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: provider is not configured", e.Provider)
	}
	return fmt.Sprintf("%s: provider is not configured: %s", e.Provider, e.Reason)
}

// ModelUnavailableError is returned when neither the caller nor the registry
// supplies a model.
type ModelUnavailableError struct {
	Provider ProviderName
	Model    string
}

func (e *ModelUnavailableError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s: model %q is not available", e.Provider, e.Model)
	}
	return fmt.Sprintf("%s: no model could be resolved", e.Provider)
}

// ProviderRequestError wraps a transport or vendor-side failure.
type ProviderRequestError struct {
	Provider   ProviderName
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderRequestError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (status %d): %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, msg)
}

func (e *ProviderRequestError) Unwrap() error { return e.Err }

// UnrecognizedPayloadError means a response matched a known dialect but no
// content could be located in it. The key sets help diagnose new shapes.
type UnrecognizedPayloadError struct {
	Dialect        string
	TopLevelKeys   []string
	FirstBlockKeys []string
}

func (e *UnrecognizedPayloadError) Error() string {
	return fmt.Sprintf("unrecognized %s payload: top-level keys [%s], first block keys [%s]",
		e.Dialect,
		strings.Join(e.TopLevelKeys, ", "),
		strings.Join(e.FirstBlockKeys, ", "),
	)
}

// NoImageReturnedError is returned when a successful image response holds no
// decodable image.
type NoImageReturnedError struct {
	Provider ProviderName
	Model    string
}

func (e *NoImageReturnedError) Error() string {
	return fmt.Sprintf("%s: model %q returned no images", e.Provider, e.Model)
}

// UnsupportedProviderError is returned for provider or dialect tags outside
// the closed set.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider %q", e.Provider)
}

// EmptyContentError is returned by callers that treat a blank normalized
// result as a failure.
type EmptyContentError struct {
	Provider ProviderName
	Model    string
	Detail   string
}

func (e *EmptyContentError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: model %q returned no content: %s", e.Provider, e.Model, e.Detail)
	}
	return fmt.Sprintf("%s: model %q returned no content", e.Provider, e.Model)
}

// Problem implements RFC 9457
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]interface{} `json:"-"`

	Log error `json:"-"`
}

func (p *Problem) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

func (p *Problem) Unwrap() error { return p.Log }

func (p *Problem) MarshalJSON() ([]byte, error) {
	type Alias Problem

	data := make(map[string]interface{})
	for k, v := range p.Extensions {
		data[k] = v
	}

	stdJSON, err := json.Marshal(Alias(*p))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stdJSON, &data); err != nil {
		return nil, err
	}

	return json.Marshal(data)
}

type ProblemOption func(*Problem)

// NewError creates a generic Problem
func NewError(status int, title, detail string, opts ...ProblemOption) *Problem {
	p := &Problem{
		Type:       "about:blank",
		Title:      title,
		Status:     status,
		Detail:     detail,
		Extensions: make(map[string]interface{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithExtension adds a custom key-value pair to the response
func WithExtension(key string, value interface{}) ProblemOption {
	return func(p *Problem) {
		p.Extensions[key] = value
	}
}

// WithLog attaches an internal error for server-side logging
func WithLog(err error) ProblemOption {
	return func(p *Problem) {
		p.Log = err
	}
}

// WithType sets the RFC "type" URI
func WithType(uri string) ProblemOption {
	return func(p *Problem) {
		p.Type = uri
	}
}

// ValidationError creates a rich validation error
func ValidationError(validationErrors map[string]string) *Problem {
	return NewError(400, "Validation Error", "One or more fields failed validation",
		WithExtension("errors", validationErrors),
	)
}

// InvalidParameterError is returned when a caller supplied parameter cannot be
// coerced to the type its schema declares.
type InvalidParameterError struct {
	Name  string
	Value any
	Err   error
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid value %v for parameter %q: %v", e.Value, e.Name, e.Err)
}

func (e *InvalidParameterError) Unwrap() error { return e.Err }
