package querytpl

import (
	"fmt"
)

// ArgCountPolicy decides what happens when a template and its arguments
// disagree on the number of placeholders.
type ArgCountPolicy int

const (
	// StrictArgCount fails with ErrArgumentCountMismatch.
	StrictArgCount ArgCountPolicy = iota
	// LenientArgCount binds NULL to missing trailing placeholders and
	// ignores surplus arguments.
	LenientArgCount
)

type Config struct {
	// Dialect defaults to MySQL.
	Dialect  *Dialect
	ArgCount ArgCountPolicy
	// CacheSize bounds the parsed template cache. Zero means DefaultCacheSize,
	// a negative size disables caching.
	CacheSize int
	Logger    Logger
}

// Builder turns templates into query text. It is safe for concurrent use.
type Builder struct {
	dialect  *Dialect
	argCount ArgCountPolicy
	cache    *templateCache
	logger   Logger
}

func New(conf Config) (*Builder, error) {
	cache, err := newTemplateCache(conf.CacheSize)
	if err != nil {
		return nil, err
	}
	b := &Builder{
		dialect:  conf.Dialect,
		argCount: conf.ArgCount,
		cache:    cache,
		logger:   conf.Logger,
	}
	if b.dialect == nil {
		b.dialect = Dialects.MySQL
	}
	if b.logger == nil {
		b.logger = nopLogger()
	}
	return b, nil
}

var defaultBuilder, _ = New(Config{})

// Build renders query with the package default builder: MySQL dialect and
// strict argument count.
func Build(query string, args ...any) (string, error) {
	return defaultBuilder.Build(query, args...)
}

func (b *Builder) Dialect() *Dialect {
	return b.dialect
}

// Build replaces every placeholder of query with its argument and resolves
// the {...} fragments. Arguments go through ArgOf, so both Arg values and
// plain Go values are accepted.
func (b *Builder) Build(query string, args ...any) (string, error) {
	values, err := argsOf(args)
	if err != nil {
		return "", err
	}
	return b.BuildArgs(query, values)
}

func (b *Builder) BuildArgs(query string, args []Arg) (string, error) {
	pieces, err := b.substitute(query, args)
	if err != nil {
		b.logger.Debugf("building %q failed: %v", query, err)
		return "", err
	}
	out, err := elide(pieces)
	if err != nil {
		b.logger.Debugf("building %q failed: %v", query, err)
		return "", err
	}
	b.logger.Debugf("built %q from %q", out, query)
	return out, nil
}

func (b *Builder) substitute(query string, args []Arg) ([]piece, error) {
	t := b.cache.get(query)
	n := t.placeholders()
	if n != len(args) {
		if b.argCount == StrictArgCount {
			return nil, fmt.Errorf("%w: template has %d placeholders, %d arguments given", ErrArgumentCountMismatch, n, len(args))
		}
		b.logger.Warnf("template has %d placeholders, %d arguments given", n, len(args))
	}

	pieces := make([]piece, 0, 2*n+1)
	pieces = append(pieces, piece{text: t.head, literal: true})
	for i, seg := range t.segments {
		a := Null()
		if i < len(args) {
			a = args[i]
		}
		p := piece{index: i, spec: seg.spec, arg: a, fragment: -1}
		if a.IsSkip() {
			p.skip = true
		} else {
			text, err := Format(b.dialect, seg.spec, a)
			if err != nil {
				return nil, &PlaceholderError{Index: i, Specifier: seg.spec, Arg: a, Err: err}
			}
			p.text = text
		}
		pieces = append(pieces, p, piece{text: seg.literal, literal: true})
	}
	return pieces, nil
}
