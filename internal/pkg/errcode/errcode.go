package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrUnauthorized
	ErrForbidden
	ErrNotFound
	ErrInvalid
	ErrConflict
	ErrTooMany
	ErrInternal
	ErrUnknownTool
	ErrPermissionDenied
	ErrInvalidToolInput
	ErrInvalidToolOutput
	ErrEmbedderUnavailable
	ErrCrawlFailed
	ErrIngestFailed
	ErrUploadFailed
)
