// Package fault defines the error taxonomy shared by every stage of a comparison run.
//
// Errors are modeled as a single struct carrying a closed Kind plus structured fields
// (location, line, field, value) so callers can branch on them with errors.As and
// errors.Is instead of matching message text.
//
// # Kinds
//
//   - Argument: missing or invalid CLI input, missing input file, output collision.
//   - Parse: malformed record, invalid size, duplicate path.
//   - Resource: a file or object could not be opened or created.
//   - Engine: wraps the first failure surfaced by either concurrent scanner.
//
// # Usage
//
//	var f *fault.Error
//	if errors.As(err, &f) && f.Kind == fault.Parse {
//	    fmt.Println(f.Location, f.Line)
//	}
package fault
