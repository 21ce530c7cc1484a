package constants

// Content Types
const (
	ContentTypeJSON   = "application/json"
	HeaderContentType = "Content-Type"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
)

// Upload form fields
const (
	FormFieldFile         = "file"
	FormFieldRequirePhone = "require_phone"
	FormFieldTenant       = "tenant_id"
)

// Export
const (
	ExportFilePrefix = "crm-data-"
)
