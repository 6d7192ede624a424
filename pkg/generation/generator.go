package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	httpclient "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/http-client"
)

const (
	KIND_SUMMARY       = "summary"
	KIND_PATIENT_INTRO = "patient_intro"
)

var ErrEmptyOutput = errors.New("generator returned no text")

// Request is rendered by a Generator into free text. The output is opaque to callers.
type Request struct {
	Kind     string            `json:"kind"`
	Language string            `json:"language,omitempty"`
	Inputs   map[string]string `json:"inputs"`
}

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// HTTPGenerator calls a text generation endpoint which answers with {"text": "..."}.
type HTTPGenerator struct {
	client   httpclient.ClientConfig
	pathname string
	model    string
}

func NewHTTPGenerator(client httpclient.ClientConfig, pathname string, model string) *HTTPGenerator {
	return &HTTPGenerator{
		client:   client,
		pathname: pathname,
		model:    model,
	}
}

type generateReq struct {
	Model string `json:"model,omitempty"`
	Request
}

func (g *HTTPGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if g.client.RootURL == "" {
		return "", errors.New("generation service not configured")
	}

	resp, err := g.client.RunHTTPcall(ctx, g.pathname, generateReq{Model: g.model, Request: req})
	if err != nil {
		return "", fmt.Errorf("generation call: %w", err)
	}
	if errMsg, hasError := resp["error"]; hasError {
		return "", fmt.Errorf("generation service error: %v", errMsg)
	}

	text, ok := resp["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

// FallbackGenerator uses the secondary generator whenever the primary fails.
type FallbackGenerator struct {
	primary   Generator
	secondary Generator
}

func NewFallbackGenerator(primary Generator, secondary Generator) *FallbackGenerator {
	return &FallbackGenerator{primary: primary, secondary: secondary}
}

func (g *FallbackGenerator) Generate(ctx context.Context, req Request) (string, error) {
	text, err := g.primary.Generate(ctx, req)
	if err == nil {
		return text, nil
	}
	slog.Warn("primary generator failed, using fallback", slog.String("kind", req.Kind), slog.String("error", err.Error()))
	return g.secondary.Generate(ctx, req)
}
