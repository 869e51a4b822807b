package search

import (
	"context"
	"errors"
	"testing"

	"gelisim-chatbot-be/internal/pkg/apperrors"
	"gelisim-chatbot-be/internal/pkg/logger"
	"gelisim-chatbot-be/pkg/brand"
	"gelisim-chatbot-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vector   []float32
	failures int // Fail this many calls before succeeding
	calls    int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text, taskType string) ([]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("embedding provider timeout")
	}
	return f.vector, nil
}

type fakeIndex struct {
	matches    []vectorindex.Match
	err        error
	lastFilter vectorindex.Filter
	lastTopK   int
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topK int, filter vectorindex.Filter) ([]vectorindex.Match, error) {
	f.lastFilter = filter
	f.lastTopK = topK
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func TestSearchSuccess(t *testing.T) {
	index := &fakeIndex{matches: []vectorindex.Match{
		{Text: "Pepsi 330ml kutu", Brand: "pepsi", DocType: "product", URL: "https://example.com/pepsi", Score: 0.91},
		{Text: "Pepsi Max", Brand: "pepsi", DocType: "unknown", URL: "", Score: 0.84},
	}}
	client := NewClient(brand.NewDetector(), &fakeEmbedder{vector: []float32{0.1, 0.2}}, index, logger.NewNop())

	results, err := client.Search(context.Background(), "Pepsi ürünleri nelerdir?", 3)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "pepsi", index.lastFilter.Brand)
	assert.Equal(t, 3, index.lastTopK)
	assert.Equal(t, "Pepsi 330ml kutu", results[0].Text)
	assert.InDelta(t, 0.91, results[0].Score, 1e-9)
}

func TestSearchDefaultBrandFilter(t *testing.T) {
	index := &fakeIndex{}
	client := NewClient(brand.NewDetector(), &fakeEmbedder{vector: []float32{0.1}}, index, logger.NewNop())

	_, err := client.Search(context.Background(), "çalışma saatleriniz nedir", 3)
	require.NoError(t, err)
	assert.Equal(t, brand.DefaultBrand, index.lastFilter.Brand)
}

func TestSearchEmptyResultsAreValid(t *testing.T) {
	client := NewClient(brand.NewDetector(), &fakeEmbedder{vector: []float32{0.1}}, &fakeIndex{}, logger.NewNop())

	results, err := client.Search(context.Background(), "pepsi", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRetriesThenSucceeds(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}, failures: 2}
	index := &fakeIndex{matches: []vectorindex.Match{{Text: "x", Score: 0.5}}}
	client := NewClient(brand.NewDetector(), embedder, index, logger.NewNop())

	// Cancel-free context; two failures burn ~3s of backoff.
	results, err := client.Search(context.Background(), "pepsi", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 3, embedder.calls)
}

func TestSearchExhaustedRetries(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}, failures: 10}
	client := NewClient(brand.NewDetector(), embedder, &fakeIndex{}, logger.NewNop())

	_, err := client.Search(context.Background(), "pepsi", 3)
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindRetrievalError, appErr.Kind)
	assert.Equal(t, 3, embedder.calls)
}
