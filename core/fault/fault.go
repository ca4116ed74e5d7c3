package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a fault.
type Kind int

const (
	// Argument marks invalid user input or an output collision.
	Argument Kind = iota + 1
	// Parse marks malformed input data.
	Parse
	// Resource marks a file or object that could not be opened or created.
	Resource
	// Engine marks a failure surfaced from a comparison scanner.
	Engine
)

func (k Kind) String() string {
	switch k {
	case Argument:
		return "argument"
	case Parse:
		return "parse"
	case Resource:
		return "resource"
	case Engine:
		return "engine"
	default:
		return "unknown"
	}
}

// Sentinel causes, matched with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInputMissing    = errors.New("no such input file")
	ErrOutputExists    = errors.New("output file already exists")
	ErrTooFewFields    = errors.New("too few fields")
	ErrMalformedQuote  = errors.New("malformed quoted field")
	ErrInvalidSize     = errors.New("invalid size")
	ErrDuplicatePath   = errors.New("duplicate path")
	ErrOpen            = errors.New("cannot open")
	ErrCreate          = errors.New("cannot create")
)

// Error is a classified failure with enough context to locate the bad input.
type Error struct {
	Kind Kind
	// Op names the operation that failed (e.g. "read", "summarize").
	Op string
	// Location is the file path or object URI involved.
	Location string
	// Line is the 1-based line number, or 0 when not applicable.
	Line int
	// Field names the offending record field, if any.
	Field string
	// Value is the offending value, if any.
	Value string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString(e.Kind.String() + " error")
	}
	switch {
	case e.Field != "" && e.Value != "":
		fmt.Fprintf(&b, " (%s %q)", e.Field, e.Value)
	case e.Value != "":
		fmt.Fprintf(&b, " (%q)", e.Value)
	}
	if e.Location != "" {
		if e.Line > 0 {
			fmt.Fprintf(&b, " in line %d of %q", e.Line, e.Location)
		} else {
			fmt.Fprintf(&b, " %q", e.Location)
		}
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewArgument returns an Argument fault.
func NewArgument(op, location string, err error) *Error {
	return &Error{Kind: Argument, Op: op, Location: location, Err: err}
}

// NewParse returns a Parse fault for a line of a source.
func NewParse(location string, line int, err error) *Error {
	return &Error{Kind: Parse, Op: "read", Location: location, Line: line, Err: err}
}

// NewResource returns a Resource fault.
func NewResource(op, location string, err error) *Error {
	return &Error{Kind: Resource, Op: op, Location: location, Err: err}
}

// NewEngine wraps a scanner failure. Faults that are already Engine faults pass through.
func NewEngine(err error) error {
	if err == nil {
		return nil
	}
	var f *Error
	if errors.As(err, &f) && f.Kind == Engine {
		return err
	}
	return &Error{Kind: Engine, Op: "compare", Err: err}
}

// KindOf reports the kind of the outermost fault in err's chain.
func KindOf(err error) (Kind, bool) {
	var f *Error
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return 0, false
}

// Cause returns the innermost fault in err's chain, skipping Engine wrappers,
// or nil if err carries no fault.
func Cause(err error) *Error {
	var last *Error
	for err != nil {
		var f *Error
		if !errors.As(err, &f) {
			break
		}
		last = f
		err = f.Err
	}
	return last
}
