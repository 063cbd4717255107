package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type captureProvider struct {
	lastText string
	lastTask string
}

func (p *captureProvider) Name() string { return "capture" }

func (p *captureProvider) Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error) {
	p.lastText = text
	p.lastTask = taskType
	return []float32{0.1}, nil
}

func TestEmbedder_TruncatesLongInput(t *testing.T) {
	provider := &captureProvider{}
	e := NewEmbedder(provider, "test-model")

	long := strings.Repeat("x", MaxEmbedInputChars+500)
	_, err := e.Embed(context.Background(), long, TaskRetrievalDocument)
	require.NoError(t, err)
	require.Len(t, provider.lastText, MaxEmbedInputChars)
	require.Equal(t, TaskRetrievalDocument, provider.lastTask)
}

func TestEmbedder_ShortInputPassesThrough(t *testing.T) {
	provider := &captureProvider{}
	e := NewEmbedder(provider, "test-model")

	_, err := e.Embed(context.Background(), "short query", TaskRetrievalQuery)
	require.NoError(t, err)
	require.Equal(t, "short query", provider.lastText)
	require.Equal(t, "test-model", e.ModelName())
}

func TestNewProvider_UnknownName(t *testing.T) {
	_, err := NewProvider("nope", nil)
	require.Error(t, err)
	_, err = NewProvider("", nil)
	require.Error(t, err)
}
