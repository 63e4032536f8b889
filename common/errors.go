// Package common holds the shared error taxonomy used across the epub reader
// core.
package common

import "errors"

// Fatal errors behind a false return from Reader.Open (ParseContainer and
// ParsePackage return the latter two). They are exported as sentinel errors rather than plain strings so callers that do
// want the detail can use errors.Is/errors.As; Reader.Open itself collapses
// them to a bool, logging the detail instead.
var (
	// ErrZipOpenFailed means the archive itself could not be opened.
	ErrZipOpenFailed = errors.New("epubcore: failed to open archive")
	// ErrInvalidContainer means META-INF/container.xml has no usable rootfile.
	ErrInvalidContainer = errors.New("epubcore: invalid or missing container.xml rootfile")
	// ErrInvalidPackage means the OPF package document could not be parsed.
	ErrInvalidPackage = errors.New("epubcore: invalid or unparseable OPF package document")
)

// Non-fatal conditions. These are never returned to callers; every other
// public method returns defaulted data rather than signalling failure. They
// exist so internal code can log consistent messages and so tests can
// assert on the condition without parsing log text.
var (
	// ErrMissingSpineItem: spine itemref references a manifest id that is
	// absent, or whose media type isn't XHTML. The slot is kept empty.
	ErrMissingSpineItem = errors.New("epubcore: spine item missing from manifest or not XHTML")
	// ErrUnreadableChapter: the zip read for a spine entry came back empty.
	ErrUnreadableChapter = errors.New("epubcore: chapter content unreadable")
	// ErrMalformedChapter: XHTML parsing of a chapter emitted no tokens.
	ErrMalformedChapter = errors.New("epubcore: chapter produced no tokens")
	// ErrUnknownTocTarget: a NavPoint target isn't on the manifest/spine.
	ErrUnknownTocTarget = errors.New("epubcore: table of contents target not found in spine")
	// ErrCacheDecodeFailed: the on-disk widths cache didn't round-trip or
	// didn't match the spine length; it is recomputed and overwritten.
	ErrCacheDecodeFailed = errors.New("epubcore: widths cache failed to decode, recomputing")
)
