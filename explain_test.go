package querytpl_test

import (
	"testing"

	"github.com/golobby/querytpl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplain(t *testing.T) {
	b, err := querytpl.New(querytpl.Config{})
	require.NoError(t, err)

	q, res, err := b.Explain("SELECT ?# FROM users WHERE a = ?d{ AND b = ?}", "id", "7", querytpl.Skip())
	require.NoError(t, err)
	assert.Equal(t, "SELECT `id` FROM users WHERE a = 7", q)
	require.Len(t, res, 3)

	assert.Equal(t, querytpl.SpecIdentifier, res[0].Specifier)
	assert.Equal(t, "`id`", res[0].Text)
	assert.Equal(t, -1, res[0].Fragment)

	assert.Equal(t, "7", res[1].Text)
	assert.False(t, res[1].Dropped)

	assert.Equal(t, 0, res[2].Fragment)
	assert.True(t, res[2].Dropped)
	assert.True(t, res[2].Arg.IsSkip())

	table := querytpl.RenderExplain(res)
	assert.Contains(t, table, "?#")
	assert.Contains(t, table, "<skip>")
	assert.Contains(t, table, "`id`")
}
