package querytpl_test

import (
	"testing"

	"github.com/golobby/querytpl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsFromYAML(t *testing.T) {
	t.Run("every kind", func(t *testing.T) {
		args, err := querytpl.ArgsFromYAML([]byte(`
- ~
- true
- 42
- 2.5
- Jack
- [1, 2, 3]
- {name: Jack, email: null}
- !skip
`))
		require.NoError(t, err)
		require.Len(t, args, 8)

		kinds := make([]querytpl.Kind, len(args))
		for i, a := range args {
			kinds[i] = a.Kind()
		}
		assert.Equal(t, []querytpl.Kind{
			querytpl.KindNull, querytpl.KindBool, querytpl.KindInt, querytpl.KindFloat,
			querytpl.KindString, querytpl.KindList, querytpl.KindMap, querytpl.KindSkip,
		}, kinds)
	})

	t.Run("mappings keep document order", func(t *testing.T) {
		args, err := querytpl.ArgsFromYAML([]byte("- {zeta: 1, alpha: 2}\n"))
		require.NoError(t, err)

		b, err := querytpl.New(querytpl.Config{})
		require.NoError(t, err)
		q, err := b.BuildArgs("UPDATE t SET ?a", args)
		assert.NoError(t, err)
		assert.Equal(t, "UPDATE t SET `zeta` = 1, `alpha` = 2", q)
	})

	t.Run("drives a build end to end", func(t *testing.T) {
		args, err := querytpl.ArgsFromYAML([]byte("- [id, name]\n- !skip\n"))
		require.NoError(t, err)

		b, err := querytpl.New(querytpl.Config{})
		require.NoError(t, err)
		q, err := b.BuildArgs("SELECT ?# FROM users {WHERE id = ?d}", args)
		assert.NoError(t, err)
		assert.Equal(t, "SELECT `id`, `name` FROM users", q)
	})

	t.Run("empty document", func(t *testing.T) {
		args, err := querytpl.ArgsFromYAML(nil)
		assert.NoError(t, err)
		assert.Empty(t, args)
	})

	t.Run("root should be a sequence", func(t *testing.T) {
		_, err := querytpl.ArgsFromYAML([]byte("a: 1\n"))
		assert.Error(t, err)
	})
}
