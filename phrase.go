// Package phrase provides string templates with named placeholders.
//
// A pattern marks keys with one of four bracket pairs, curly by default:
//
//	Hello {first_name}, you have {count} new messages.
//
// # Basic Usage
//
// Parse once, bind values, format:
//
//	t, err := phrase.From("{greeting} {who}!")
//	if err != nil {
//	    return err // syntax error, with line and column metadata
//	}
//	_ = t.Put("greeting", "Hello")
//	_ = t.Put("who", "World")
//	out, err := t.Format()
//	// out: "Hello World!"
//
// # Pattern Syntax
//
// A key is one or more of a-z and '_' between the open and close bracket,
// starting with a letter. Two open brackets produce one literal open
// bracket; there is no escape for the close bracket.
//
//	{{literal}     -> {literal}
//	(name)         -> with phrase.WithBracket(phrase.BracketRound)
//
// # Binding
//
// Put accepts any value with a canonical text form: strings, numbers,
// booleans, fmt.Stringer and error values. PutArray and PutSlice join a
// sequence with a separator. PutOptional ignores keys the pattern does not
// declare. Format fails with ErrMissingKeys, listing every unbound key,
// until all declared keys have values; the result is cached until the next
// bind.
//
// # Formatting Spans
//
// FromSpanned accepts text carrying style spans (see ParseMarkup). Spans
// outside placeholders survive formatting and move with the surrounding
// text; FormatSpanned and FormatHTML return them.
//
// # Storage and Catalog
//
// Named phrases can be kept in a PhraseStorage ("memory", "filesystem",
// "sqlite", "postgres") and formatted through a Catalog, which caches
// parsed templates and reports OpenTelemetry spans and metrics.
//
// # Concurrency
//
// A Template is not safe for concurrent use; Clone it per goroutine.
// Storages and Catalogs are safe for concurrent use.
package phrase
