package querytpl

import "strings"

// piece is one run of substituted output. Literal pieces come from the
// template and are the only place fragment braces are recognised.
type piece struct {
	text    string
	literal bool

	// placeholder pieces only
	index int
	spec  Specifier
	arg   Arg
	skip  bool

	// set by elide: fragment number or -1, and whether it was removed
	fragment int
	dropped  bool
}

// elide resolves {...} fragments over the substituted pieces. A fragment runs
// from a '{' to the next '}'. It is removed, braces included, when one of its
// placeholders is bound to the skip sentinel; otherwise only its braces go.
func elide(pieces []piece) (string, error) {
	var (
		out, frag strings.Builder
		open      bool
		skipped   bool
		fragment  = -1
		count     int
		members   []int
	)

	closeFragment := func() {
		if !skipped {
			out.WriteString(frag.String())
		}
		for _, m := range members {
			pieces[m].dropped = skipped
		}
		frag.Reset()
		members = members[:0]
		open, skipped = false, false
	}

	for i := range pieces {
		p := &pieces[i]
		if !p.literal {
			p.fragment = -1
			if open {
				p.fragment = fragment
				members = append(members, i)
			}
			if p.skip {
				if !open {
					return "", &PlaceholderError{Index: p.index, Specifier: p.spec, Arg: p.arg, Err: ErrSkipOutsideFragment}
				}
				skipped = true
				continue
			}
			if open {
				frag.WriteString(p.text)
			} else {
				out.WriteString(p.text)
			}
			continue
		}

		for j := 0; j < len(p.text); j++ {
			c := p.text[j]
			switch {
			case c == '{':
				if !open {
					open = true
					fragment = count
					count++
				}
			case c == '}':
				if open {
					closeFragment()
				}
			case open:
				frag.WriteByte(c)
			default:
				out.WriteByte(c)
			}
		}
	}

	// An unterminated fragment is not a fragment: its text stays and a skip
	// value inside it has nothing to remove.
	if open {
		for _, m := range members {
			pieces[m].fragment = -1
			if pieces[m].skip {
				p := pieces[m]
				return "", &PlaceholderError{Index: p.index, Specifier: p.spec, Arg: p.arg, Err: ErrSkipOutsideFragment}
			}
		}
		out.WriteString(frag.String())
	}

	return strings.TrimSpace(out.String()), nil
}
