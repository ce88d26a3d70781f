package registration

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/core"
)

// SourceInput is one raw description of a property. Text sources carry
// Text or text file Paths; image and video sources carry inline Media or
// file Paths.
type SourceInput struct {
	Kind  core.SourceKind
	Text  string
	Media []ai.Media
	Paths []string
}

// Registration is one property's set of sources. An empty ID registers a
// new property; a known ID replaces that property.
type Registration struct {
	ID      core.PropertyID
	Sources []SourceInput
}

// request reads any files named by in and builds the oracle request.
func (in SourceInput) request() (ai.ExtractionRequest, error) {
	if err := core.ValidateSourceKind(in.Kind); err != nil {
		return ai.ExtractionRequest{}, err
	}
	req := ai.ExtractionRequest{Kind: in.Kind, Text: in.Text}
	req.Media = append(req.Media, in.Media...)

	for _, path := range in.Paths {
		if in.Kind == core.SourceKindText {
			data, err := os.ReadFile(path)
			if err != nil {
				return ai.ExtractionRequest{}, fmt.Errorf("read %s: %w", path, err)
			}
			req.Text = strings.TrimSpace(req.Text + "\n\n" + string(data))
			continue
		}
		media, err := loadMedia(path, in.Kind)
		if err != nil {
			return ai.ExtractionRequest{}, err
		}
		req.Media = append(req.Media, media)
	}
	return req, nil
}

func loadMedia(path string, kind core.SourceKind) (ai.Media, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ai.Media{}, fmt.Errorf("read %s: %w", path, err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	want := "image/"
	if kind == core.SourceKindVideo {
		want = "video/"
	}
	if !strings.HasPrefix(mimeType, want) {
		return ai.Media{}, fmt.Errorf("%w: %s is %s, not a %s source", ErrUnsupportedFile, path, mimeType, kind)
	}
	return ai.Media{MIMEType: mimeType, Data: data}, nil
}
