package constants

// ============================================================================
// REQUEST & PAYLOAD ERRORS
// ============================================================================

const (
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidRequestBody = "Invalid request body"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrMissingFile        = "No file found in the upload. Please attach a spreadsheet"
	ErrInvalidPayloadJSON = "The imported file is not a valid payload export"
	ErrNoPayload          = "No payload found. Upload or import data first"
)

// ============================================================================
// FILE PARSING ERRORS
// ============================================================================

const (
	ErrUnsupportedFileType = "unsupported file type (use .xlsx, .xls or .csv)"
	ErrEmptySheet          = "The uploaded sheet contains no rows"
	ErrParseFailed         = "Could not parse the uploaded file"
)

// ============================================================================
// CRM ENTITY ERRORS
// ============================================================================

const (
	ErrUnitNotFound    = "Unit not found"
	ErrOwnerNotFound   = "Owner not found"
	ErrLinkNotFound    = "Link not found"
	ErrMissingUnitCode = "maCan is required"
	ErrMissingNoteText = "Note content is required"
	ErrMissingLinkKeys = "canHoId and chuNhaId are required"
)

// ============================================================================
// STORE & SYNC ERRORS
// ============================================================================

const (
	ErrCacheReadFailed  = "Failed to read the local payload cache"
	ErrCacheWriteFailed = "Failed to write the local payload cache"
	ErrNoRemoteStore    = "No remote document store is configured"
	ErrSyncFailed       = "Failed to push data to the remote store"
	ErrFetchFailed      = "Failed to fetch data from the remote store"
)
