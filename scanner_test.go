package querytpl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  *template
	}{
		{
			name:  "no markers",
			query: "SELECT 1",
			want:  &template{head: "SELECT 1", segments: []segment{}},
		},
		{
			name:  "every specifier",
			query: "? ?d ?f ?a ?# ?x",
			want: &template{head: "", segments: []segment{
				{spec: SpecDefault, literal: " "},
				{spec: SpecInt, literal: " "},
				{spec: SpecFloat, literal: " "},
				{spec: SpecArray, literal: " "},
				{spec: SpecIdentifier, literal: " "},
				{spec: SpecDefault, literal: "x"},
			}},
		},
		{
			name:  "marker at the end",
			query: "WHERE a = ?",
			want:  &template{head: "WHERE a = ", segments: []segment{{spec: SpecDefault, literal: ""}}},
		},
		{
			name:  "adjacent markers",
			query: "??d",
			want: &template{head: "", segments: []segment{
				{spec: SpecDefault, literal: ""},
				{spec: SpecInt, literal: ""},
			}},
		},
		{
			name:  "fragment after a specifier",
			query: "SELECT * FROM t {WHERE id = ?d}",
			want:  &template{head: "SELECT * FROM t {WHERE id = ", segments: []segment{{spec: SpecInt, literal: "}"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTemplate(tt.query)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(template{}, segment{})); diff != "" {
				t.Errorf("parseTemplate(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestSpecifierString(t *testing.T) {
	assert.Equal(t, "?", SpecDefault.String())
	assert.Equal(t, "?d", SpecInt.String())
	assert.Equal(t, "?f", SpecFloat.String())
	assert.Equal(t, "?a", SpecArray.String())
	assert.Equal(t, "?#", SpecIdentifier.String())
}

func TestTemplateCache(t *testing.T) {
	c, err := newTemplateCache(2)
	assert.NoError(t, err)

	first := c.get("SELECT ?d")
	assert.Same(t, first, c.get("SELECT ?d"))
	c.get("SELECT ?f")
	c.get("SELECT ?a")
	assert.Equal(t, 2, c.len())
	assert.NotSame(t, first, c.get("SELECT ?d"))

	var disabled *templateCache
	assert.Equal(t, 1, disabled.get("SELECT ?").placeholders())
	assert.Equal(t, 0, disabled.len())
}
