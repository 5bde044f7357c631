// Package errs collects the sentinel errors returned across fxstore.
//
// Callers should use errors.Is against these sentinels; call sites wrap
// them with fmt.Errorf("%w: ...", errs.ErrX, ...) to attach context.
package errs

import "errors"

var (
	// ErrParseLine indicates a feed line could not be parsed into a bar.
	// The ingest pipeline drops the line and continues (spec.md §7 ParseError).
	ErrParseLine = errors.New("fxstore: malformed feed line")

	// ErrFeedIO indicates a failure opening or reading a text feed.
	ErrFeedIO = errors.New("fxstore: feed io error")

	// ErrUnknownSymbol indicates an operation referenced a symbol name that
	// has never been interned. No fxstore function returns it: QueryRange
	// yields an empty sequence for an unknown symbol instead (spec.md §7).
	ErrUnknownSymbol = errors.New("fxstore: unknown symbol")

	// ErrCorruptBlock indicates a day-block failed to decompress, deserialize,
	// or pass its integrity checksum. Fatal for the block; not retried.
	ErrCorruptBlock = errors.New("fxstore: corrupt block")

	// ErrQueueClosed indicates an ingest call arrived after the store began
	// draining or stopped.
	ErrQueueClosed = errors.New("fxstore: ingest queue closed")

	// ErrInvalidCompression indicates an unsupported format.CompressionType.
	ErrInvalidCompression = errors.New("fxstore: invalid compression type")

	// ErrNotImplemented marks stubbed collaborators (persistence, realtime)
	// that are reserved by the spec but not implemented today.
	ErrNotImplemented = errors.New("fxstore: not implemented")
)
