package querytpl

import (
	"strconv"

	"github.com/jedib0t/go-pretty/table"
)

// Resolution describes how one placeholder was resolved.
type Resolution struct {
	Index     int
	Specifier Specifier
	Arg       Arg
	Text      string
	// Fragment is the zero based number of the enclosing fragment, or -1.
	Fragment int
	Dropped  bool
}

// Explain builds query and reports every placeholder alongside the result.
func (b *Builder) Explain(query string, args ...any) (string, []Resolution, error) {
	values, err := argsOf(args)
	if err != nil {
		return "", nil, err
	}
	return b.ExplainArgs(query, values)
}

func (b *Builder) ExplainArgs(query string, args []Arg) (string, []Resolution, error) {
	pieces, err := b.substitute(query, args)
	if err != nil {
		return "", nil, err
	}
	out, err := elide(pieces)
	if err != nil {
		return "", nil, err
	}
	var res []Resolution
	for _, p := range pieces {
		if p.literal {
			continue
		}
		res = append(res, Resolution{
			Index:     p.index,
			Specifier: p.spec,
			Arg:       p.arg,
			Text:      p.text,
			Fragment:  p.fragment,
			Dropped:   p.dropped,
		})
	}
	return out, res, nil
}

func RenderExplain(res []Resolution) string {
	w := table.NewWriter()
	w.AppendHeader(table.Row{"#", "Specifier", "Argument", "Rendered", "Fragment", "Dropped"})
	for _, r := range res {
		fragment := "-"
		if r.Fragment >= 0 {
			fragment = strconv.Itoa(r.Fragment)
		}
		w.AppendRow(table.Row{r.Index + 1, r.Specifier.String(), r.Arg.String(), r.Text, fragment, r.Dropped})
	}
	return w.Render()
}
