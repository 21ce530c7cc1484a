package config

const (
	// PayloadCacheKey is the fixed key the full three-table payload is
	// cached under, per tenant. Kept identical to the legacy client key so
	// exported JSON stays interchangeable.
	PayloadCacheKey = "CRM_BDS_PAYLOAD_V1"

	// BatchSize caps mutations per remote-store commit. Batches are
	// committed sequentially; a failure leaves earlier batches applied.
	BatchSize = 400

	// HeaderScanRows bounds how deep the header-row detector looks into a
	// sheet before giving up on finding a recognizable header.
	HeaderScanRows = 50

	DateFormat     = "2006-01-02"
	ExportTimeFmt  = "20060102-1504"
	DefaultTenant  = "demo"

	CollCanHo  = "canHo"
	CollChuNha = "chuNha"
	CollLinks  = "links"

	// DefaultSyncSchedule pushes the local payload cache to the remote
	// store every six hours unless services.yaml overrides it.
	DefaultSyncSchedule = "0 */6 * * *"

	DefaultTimeZone = "Asia/Ho_Chi_Minh"
)
