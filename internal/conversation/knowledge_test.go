package conversation

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKnowledgeOrdered(t *testing.T) {
	sections, err := DefaultKnowledge().Sections(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, sections)

	for i := 1; i < len(sections); i++ {
		assert.LessOrEqual(t, sections[i-1].DisplayOrder, sections[i].DisplayOrder)
	}
}

func TestPostgresKnowledgeSections(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	k := newPostgresKnowledgeWithExec(mock)

	rows := pgxmock.NewRows([]string{"section", "title", "content", "display_order"}).
		AddRow("company", "Company Information", "Prestige Car Hire operates across the UK.", 1).
		AddRow("pricing", "Pricing", "Rates start from 45 GBP per day.", 2)
	mock.ExpectQuery("SELECT section, title, content, display_order FROM context_sections").
		WillReturnRows(rows)

	sections, err := k.Sections(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "company", sections[0].Section)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRenderSections(t *testing.T) {
	out := RenderSections([]ContextSection{
		{Section: "company", Title: "Company Information", Content: "We hire cars.", DisplayOrder: 1},
		{Section: "pricing", Title: "Pricing", Content: "From 45 GBP per day.", DisplayOrder: 2},
	})

	assert.Contains(t, out, "=== Company Information ===")
	assert.Contains(t, out, "We hire cars.")
	assert.Contains(t, out, "=== Pricing ===")
}

func TestRenderSectionsEmptyFallback(t *testing.T) {
	out := RenderSections(nil)
	assert.Contains(t, out, "Prestige Car Hire")
}
