package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotedesk/internal/catalog"
	"quotedesk/internal/domain"
)

func demoOptions() options {
	return options{source: string(domain.SourceDemo), category: domain.CategoryAll, markup: true, width: 200}
}

func TestRunDemoPrintsCount(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), demoOptions(), &out))

	assert.Contains(t, out.String(), catalog.CountText(len(catalog.Demo())))
}

func TestRunHighlightsWithMarkup(t *testing.T) {
	rec := catalog.Demo()[0]
	o := demoOptions()
	o.query = rec.Title[:3]

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), o, &out))
	assert.Contains(t, out.String(), "<strong>")
}

func TestRunEmptyState(t *testing.T) {
	o := demoOptions()
	o.query = "zzzz-no-such-record"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), o, &out))
	assert.Contains(t, out.String(), catalog.EmptyTitle)
	assert.Contains(t, out.String(), catalog.EmptyHint)
}

func TestRunUnknownCategoryHints(t *testing.T) {
	o := demoOptions()
	o.category = "evnts"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), o, &out))
	assert.Contains(t, out.String(), catalog.EmptyTitle)
	assert.Contains(t, out.String(), "did you mean events")
}

func TestRunUnknownSource(t *testing.T) {
	o := demoOptions()
	o.source = "invoices"
	assert.Error(t, run(context.Background(), o, &bytes.Buffer{}))
}

func TestRunWritesXLSX(t *testing.T) {
	o := demoOptions()
	o.xlsxPath = filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, run(context.Background(), o, &bytes.Buffer{}))
	assert.FileExists(t, o.xlsxPath)
}

func TestSuggestCategories(t *testing.T) {
	known := []string{domain.CategoryAll, "pending", "processing", "delivered"}

	assert.Equal(t, []string{"delivered"}, suggestCategories("delivrd", known))
	assert.Empty(t, suggestCategories("", known))
	assert.Empty(t, suggestCategories("xyz", known))
}
