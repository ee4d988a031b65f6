package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const emptyCartReason = "Add some items to your cart to get personalized recommendations!"

const recommendationCount = 3

// InlineImage is binary media sent alongside a prompt.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// GenerateRequest asks the model for a JSON document matching Schema.
type GenerateRequest struct {
	Prompt string
	Image  *InlineImage
	Schema *genai.Schema
}

// Generator is a language model returning raw JSON text.
type Generator interface {
	GenerateJSON(ctx context.Context, req GenerateRequest) (string, error)
}

type CartItemName struct {
	Name string `json:"name"`
}

type Recommendations struct {
	Recommendations []string `json:"recommendations"`
	Reason          string   `json:"reason"`
}

type PackagingSuggestions struct {
	SuggestedPairings []string `json:"suggestedPairings"`
	Analysis          string   `json:"analysis"`
}

var recommendationPrompt = template.Must(template.New("recommend").Parse(
	`You are a helpful shopping assistant for an eco-friendly grocery store. A user has the following items in their cart:
{{range .}}- {{.Name}}
{{end}}
Based on these items, suggest 3 other complementary products they might like. The recommendations should be products commonly sold at a large grocery retailer.

Also provide a short, friendly reason for your suggestions.
`))

const packagingPrompt = `You are an AI assistant that analyzes user locations and suggests community cart pairings to reduce packaging waste.

Analyze the attached image of the user's location. Suggest potential community cart pairings (neighbours, buildings or identifiers visible in the area) and give an analysis of the potential for community carts in this area.`

var recommendationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendations": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Exactly 3 product names to recommend to the user.",
		},
		"reason": {
			Type:        genai.TypeString,
			Description: "A short, friendly sentence explaining why these items were recommended.",
		},
	},
	Required: []string{"recommendations", "reason"},
}

var packagingSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestedPairings": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Identifiers suggested as potential community cart pairings.",
		},
		"analysis": {
			Type:        genai.TypeString,
			Description: "An analysis of the location and its potential for community cart pairings.",
		},
	},
	Required: []string{"suggestedPairings", "analysis"},
}

// AdvisorService runs the two model-backed flows. A nil Generator disables it.
type AdvisorService struct {
	gen     Generator
	timeout time.Duration
	log     *zap.Logger
}

func NewAdvisorService(gen Generator, timeout time.Duration, log *zap.Logger) *AdvisorService {
	return &AdvisorService{gen: gen, timeout: timeout, log: log.Named("advisor")}
}

// Recommend suggests three products to go with items. An empty cart gets a
// fixed answer without calling the model.
func (s *AdvisorService) Recommend(ctx context.Context, items []CartItemName) (*Recommendations, error) {
	if len(items) == 0 {
		return &Recommendations{Recommendations: []string{}, Reason: emptyCartReason}, nil
	}
	if s.gen == nil {
		return nil, ErrAdvisorDisabled
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, validationError("items", "Every cart item needs a name.")
		}
	}

	var prompt bytes.Buffer
	if err := recommendationPrompt.Execute(&prompt, items); err != nil {
		return nil, backendError(s.log, "Could not get recommendations. Please try again.", err)
	}

	var out Recommendations
	if err := s.generate(ctx, GenerateRequest{Prompt: prompt.String(), Schema: recommendationSchema}, &out); err != nil {
		return nil, backendError(s.log, "Could not get recommendations. Please try again.", err, zap.Int("items", len(items)))
	}
	if len(out.Recommendations) != recommendationCount || strings.TrimSpace(out.Reason) == "" {
		return nil, validationError("recommendations", "The assistant returned an incomplete answer. Please try again.")
	}
	for _, r := range out.Recommendations {
		if strings.TrimSpace(r) == "" {
			return nil, validationError("recommendations", "The assistant returned an incomplete answer. Please try again.")
		}
	}
	return &out, nil
}

// AnalyzeLocation sends a location photo, given as a base64 data URI, to the model.
func (s *AdvisorService) AnalyzeLocation(ctx context.Context, imageDataURI string) (*PackagingSuggestions, error) {
	img, err := ParseImageDataURI(imageDataURI)
	if err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, ErrAdvisorDisabled
	}

	var out PackagingSuggestions
	req := GenerateRequest{Prompt: packagingPrompt, Image: img, Schema: packagingSchema}
	if err := s.generate(ctx, req, &out); err != nil {
		return nil, backendError(s.log, "An unexpected error occurred. Please try again.", err, zap.String("mime_type", img.MIMEType))
	}
	if strings.TrimSpace(out.Analysis) == "" {
		return nil, validationError("analysis", "The assistant returned an incomplete answer. Please try again.")
	}
	if out.SuggestedPairings == nil {
		out.SuggestedPairings = []string{}
	}
	return &out, nil
}

func (s *AdvisorService) generate(ctx context.Context, req GenerateRequest, out interface{}) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	text, err := s.gen.GenerateJSON(ctx, req)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(text), out)
}

// ParseImageDataURI decodes data:image/<subtype>;base64,<payload>.
func ParseImageDataURI(uri string) (*InlineImage, error) {
	const prefix = "data:image/"
	if uri == "" {
		return nil, validationError("locationImage", "Image is required.")
	}
	if !strings.HasPrefix(uri, prefix) {
		return nil, validationError("locationImage", "Invalid image format.")
	}
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, validationError("locationImage", "Invalid image format.")
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok || mimeType == "image/" || strings.Contains(mimeType, ";") {
		return nil, validationError("locationImage", "Invalid image format.")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, validationError("locationImage", "Invalid image format.")
	}
	return &InlineImage{MIMEType: mimeType, Data: data}, nil
}
