package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	reply string
	err   error
	calls []GenerateRequest
}

func (g *fakeGenerator) GenerateJSON(_ context.Context, req GenerateRequest) (string, error) {
	g.calls = append(g.calls, req)
	return g.reply, g.err
}

func newAdvisor(gen Generator) *AdvisorService {
	return NewAdvisorService(gen, 0, zap.NewNop())
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart skips the model", func(t *testing.T) {
		gen := &fakeGenerator{}
		out, err := newAdvisor(gen).Recommend(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, out.Recommendations)
		assert.Equal(t, "Add some items to your cart to get personalized recommendations!", out.Reason)
		assert.Empty(t, gen.calls)
	})

	t.Run("empty cart works without a model", func(t *testing.T) {
		out, err := newAdvisor(nil).Recommend(ctx, []CartItemName{})
		require.NoError(t, err)
		assert.NotEmpty(t, out.Reason)
	})

	t.Run("three recommendations", func(t *testing.T) {
		gen := &fakeGenerator{reply: `{"recommendations":["Salsa","Limes","Tortilla Chips"],"reason":"Great for guacamole night."}`}
		out, err := newAdvisor(gen).Recommend(ctx, []CartItemName{{Name: "Avocados"}, {Name: "Cilantro"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Salsa", "Limes", "Tortilla Chips"}, out.Recommendations)
		require.Len(t, gen.calls, 1)
		assert.Contains(t, gen.calls[0].Prompt, "- Avocados\n- Cilantro\n")
		assert.Same(t, recommendationSchema, gen.calls[0].Schema)
		assert.Nil(t, gen.calls[0].Image)
	})

	t.Run("wrong count is rejected", func(t *testing.T) {
		gen := &fakeGenerator{reply: `{"recommendations":["Salsa","Limes"],"reason":"ok"}`}
		_, err := newAdvisor(gen).Recommend(ctx, []CartItemName{{Name: "Avocados"}})
		requireKind(t, err, KindValidation)
	})

	t.Run("malformed reply", func(t *testing.T) {
		gen := &fakeGenerator{reply: `not json`}
		_, err := newAdvisor(gen).Recommend(ctx, []CartItemName{{Name: "Avocados"}})
		requireKind(t, err, KindBackend)
	})

	t.Run("model failure", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("quota exceeded")}
		_, err := newAdvisor(gen).Recommend(ctx, []CartItemName{{Name: "Avocados"}})
		requireKind(t, err, KindBackend)
		assert.Len(t, gen.calls, 1, "no retries")
	})

	t.Run("disabled", func(t *testing.T) {
		_, err := newAdvisor(nil).Recommend(ctx, []CartItemName{{Name: "Avocados"}})
		assert.ErrorIs(t, err, ErrAdvisorDisabled)
	})
}

func TestAnalyzeLocation(t *testing.T) {
	ctx := context.Background()
	png := []byte{0x89, 'P', 'N', 'G'}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	t.Run("sends the image inline", func(t *testing.T) {
		gen := &fakeGenerator{reply: `{"suggestedPairings":["Building A"],"analysis":"Dense block, good fit."}`}
		out, err := newAdvisor(gen).AnalyzeLocation(ctx, uri)
		require.NoError(t, err)
		assert.Equal(t, []string{"Building A"}, out.SuggestedPairings)
		require.Len(t, gen.calls, 1)
		require.NotNil(t, gen.calls[0].Image)
		assert.Equal(t, "image/png", gen.calls[0].Image.MIMEType)
		assert.Equal(t, png, gen.calls[0].Image.Data)
	})

	t.Run("missing analysis", func(t *testing.T) {
		gen := &fakeGenerator{reply: `{"suggestedPairings":[]}`}
		_, err := newAdvisor(gen).AnalyzeLocation(ctx, uri)
		requireKind(t, err, KindValidation)
	})

	t.Run("bad input never reaches the model", func(t *testing.T) {
		gen := &fakeGenerator{}
		_, err := newAdvisor(gen).AnalyzeLocation(ctx, "data:text/plain;base64,aGk=")
		requireKind(t, err, KindValidation)
		assert.Empty(t, gen.calls)
	})
}

func TestParseImageDataURI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"png", "data:image/png;base64,iVBORw==", true},
		{"jpeg", "data:image/jpeg;base64,/9j/4A==", true},
		{"empty", "", false},
		{"not an image", "data:text/plain;base64,aGk=", false},
		{"no base64 marker", "data:image/png,iVBORw==", false},
		{"no payload separator", "data:image/png;base64", false},
		{"bad payload", "data:image/png;base64,@@@", false},
		{"empty payload", "data:image/png;base64,", false},
		{"missing subtype", "data:image/;base64,aGk=", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ParseImageDataURI(tt.in)
			if !tt.ok {
				requireKind(t, err, KindValidation)
				assert.Equal(t, "locationImage", FieldOf(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, img.Data)
		})
	}
}
