package constants

const (
	// Transfer result actions.
	ActionDownloaded = "downloaded"
	ActionSkipped    = "skipped"
	ActionFailed     = "failed"

	// Record outcome statuses.
	StatusSuccess        = "success"
	StatusPartialSuccess = "partial_success"
	StatusSkipped        = "skipped"
	StatusError          = "error"

	// Asset classes referenced by verification records.
	AssetDocFront = "doc_front"
	AssetDocBack  = "doc_back"
	AssetSelfie   = "selfie"
	AssetSprite   = "sprite"
	AssetVideo    = "video"

	// Filenames written into each record directory.
	FileDocFront   = "doc_front.jpg"
	FileDocBack    = "doc_back.jpg"
	FileSelfie     = "selfie.jpg"
	FileSprite     = "sprite.jpg"
	FileRecordJSON = "data.json"

	// The video asset keeps the extension of its source URL,
	// falling back to DefaultVideoExt when the URL has none.
	VideoBaseName   = "video"
	DefaultVideoExt = ".mp4"

	// UnlimitedKeys tells the lister to exhaust the namespace.
	UnlimitedKeys = -1

	// UseConfigMaxKeys is the -limit flag value meaning "use the
	// MAX_KEYS config setting". UnlimitedKeys (-1) is itself a valid
	// flag value, so the sentinel has to live below it.
	UseConfigMaxKeys = -2
)

const (
	DefaultListPageSize    = 1000
	DefaultTransferWorkers = 12
	DefaultAssemblyWorkers = 24
)

var RecordStatuses = []string{
	StatusSuccess,
	StatusPartialSuccess,
	StatusSkipped,
	StatusError,
}

var TransferActions = []string{
	ActionDownloaded,
	ActionSkipped,
	ActionFailed,
}
