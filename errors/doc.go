// Package errors provides structured error types for the piplkit toolkit.
//
// Errors are categorized by Phase (where in the pipeline the error occurred)
// and Kind (error category). The Error type carries the offending file path,
// the property tag being processed, and the buffer offset, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindOutOfBounds).
//		File("plugin.rsrc").
//		Offset(0x40).
//		Detail("reference list truncated").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FormatUnknown(path)
//	err := errors.ImplausibleLength(tag, offset, declared)
//
// All errors implement the standard error interface and support errors.Is/As.
// Per the degradation policy, structural errors inside a scan loop are not
// returned at all: the parser abandons the structure, falls back to signature
// scanning, and only a wholly empty result surfaces as KindNoProperties.
package errors
