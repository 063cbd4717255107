package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
	ErrTooMany      = errors.New("too many requests")
	ErrInternal     = errors.New("internal")

	// Chunker parameter misuse, a caller bug.
	ErrConfiguration = errors.New("invalid configuration")

	// Skill registry failures. Always surfaced through a failed tool
	// call record, never swallowed.
	ErrUnknownTool      = errors.New("unknown tool")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid tool input")
	ErrInvalidOutput    = errors.New("invalid tool output")

	// Retrieval degrades to lexical fallback first; this surfaces only
	// when the fallback itself is down.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// Scraper failures, recorded per URL during a crawl.
	ErrFetchFailed      = errors.New("fetch failed")
	ErrRobotsDisallowed = errors.New("disallowed by robots.txt")
	ErrNotHTML          = errors.New("not html content")

	// Conversation state machine misuse, a caller ordering bug.
	ErrInvalidTransition = errors.New("invalid state transition")
)
