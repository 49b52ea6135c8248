package querytpl

import (
	"fmt"
	"strings"
)

// Dialect holds the quoting rules used when values are written into a query.
type Dialect struct {
	DriverName      string
	IdentifierQuote string
	// BackslashEscapes is set for servers that treat '\' as an escape
	// character inside string literals.
	BackslashEscapes bool
}

var Dialects = &struct {
	MySQL      *Dialect
	PostgreSQL *Dialect
	SQLite3    *Dialect
}{
	MySQL: &Dialect{
		DriverName:       "mysql",
		IdentifierQuote:  "`",
		BackslashEscapes: true,
	},
	PostgreSQL: &Dialect{
		DriverName:      "postgres",
		IdentifierQuote: `"`,
	},
	SQLite3: &Dialect{
		DriverName:      "sqlite3",
		IdentifierQuote: "`",
	},
}

var mysqlEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
)

// QuoteString returns s as a single quoted string literal.
func (d *Dialect) QuoteString(s string) string {
	if d.BackslashEscapes {
		return "'" + mysqlEscaper.Replace(s) + "'"
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdentifier wraps name in the dialect's identifier quotes.
func (d *Dialect) QuoteIdentifier(name string) string {
	q := d.IdentifierQuote
	return q + strings.ReplaceAll(name, q, q+q) + q
}

func getDialect(driver string) (*Dialect, error) {
	switch driver {
	case "", "mysql":
		return Dialects.MySQL, nil
	case "sqlite", "sqlite3":
		return Dialects.SQLite3, nil
	case "postgres", "postgresql":
		return Dialects.PostgreSQL, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, driver)
	}
}

// DialectFor returns the dialect registered for the given driver name.
func DialectFor(driver string) (*Dialect, error) {
	return getDialect(driver)
}
