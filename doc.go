// Package querytpl renders SQL templates with typed placeholders into literal
// query text.
//
// Placeholders:
//
//	?   null, bool or string
//	?d  integer
//	?f  float
//	?a  list (1, 2, 3) or map (`a` = 1, `b` = NULL)
//	?#  identifier or list of identifiers
//
// A part of the template wrapped in braces is optional. It is removed when
// one of its placeholders is bound to Skip(), otherwise only the braces go:
//
//	q, err := querytpl.Build("SELECT * FROM users {WHERE id = ?d}", querytpl.Skip())
//	// q == "SELECT * FROM users"
package querytpl
