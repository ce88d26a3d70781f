// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/propmatch/ai"
)

// Oracle implements ai.ExtractionOracle using OpenAI-compatible chat APIs.
// Listing text and images are supported; video needs the gemini backend.
type Oracle struct {
	client llms.Model
	logger *slog.Logger
}

// newOracle is an internal constructor that returns the concrete type.
func newOracle(config *ai.Config) (*Oracle, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.OracleHost),
		openai.WithToken(token(config)),
		openai.WithModel(config.OracleModel),
	)
	if err != nil {
		return nil, err
	}

	return &Oracle{
		client: client,
		logger: slog.Default().With("component", "openai-oracle"),
	}, nil
}

// NewOracle creates a new extraction oracle using the provided configuration.
//
// Returns ai.ExtractionOracle interface to enforce abstraction.
func NewOracle(config *ai.Config) (ai.ExtractionOracle, error) {
	return newOracle(config)
}

// Extract sends one source to the model in JSON mode and returns the raw reply.
// The reply is not parsed here.
func (o *Oracle) Extract(ctx context.Context, req ai.ExtractionRequest) (string, error) {
	parts := make([]llms.ContentPart, 0, len(req.Media)+1)
	for _, m := range req.Media {
		if !strings.HasPrefix(m.MIMEType, "image/") {
			return "", fmt.Errorf("%w: %s", ai.ErrUnsupportedMedia, m.MIMEType)
		}
		parts = append(parts, llms.BinaryPart(m.MIMEType, m.Data))
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = fmt.Sprintf("Analyze the attached %s source of the property.", req.Kind)
	}
	parts = append(parts, llms.TextPart(text))

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(ai.Instructions(req.Kind))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: parts,
		},
	}

	o.logger.Debug("requesting extraction", "kind", req.Kind, "media", len(req.Media), "textLength", len(req.Text))

	response, err := o.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		o.logger.Error("failed to generate content", "kind", req.Kind, "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", ai.ErrEmptyResponse
	}
	return response.Choices[0].Content, nil
}
