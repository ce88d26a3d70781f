package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/poiesic/propmatch/ai"
)

// Oracle implements ai.ExtractionOracle with a multimodal Gemini model.
// Text, images and video are all sent inline.
type Oracle struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// Extract sends one source to the model and returns the raw JSON reply.
func (o *Oracle) Extract(ctx context.Context, req ai.ExtractionRequest) (string, error) {
	parts := make([]*genai.Part, 0, len(req.Media)+1)
	for _, m := range req.Media {
		if !strings.HasPrefix(m.MIMEType, "image/") && !strings.HasPrefix(m.MIMEType, "video/") {
			return "", fmt.Errorf("%w: %s", ai.ErrUnsupportedMedia, m.MIMEType)
		}
		parts = append(parts, genai.NewPartFromBytes(m.Data, m.MIMEType))
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = fmt.Sprintf("Analyze the attached %s source of the property.", req.Kind)
	}
	parts = append(parts, genai.NewPartFromText(text))

	temperature := float32(0)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(ai.Instructions(req.Kind), genai.RoleUser),
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
	}

	o.logger.Debug("requesting extraction", "kind", req.Kind, "media", len(req.Media), "model", o.model)

	resp, err := o.client.Models.GenerateContent(ctx, o.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, config)
	if err != nil {
		o.logger.Error("failed to generate content", "kind", req.Kind, "err", err)
		return "", err
	}

	out := resp.Text()
	if strings.TrimSpace(out) == "" {
		return "", ai.ErrEmptyResponse
	}
	return out, nil
}
