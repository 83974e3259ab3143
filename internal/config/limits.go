package config

const (
	// MaxItemNameLength is the maximum length for folder and file names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxItemNameLength = 255

	// MaxCanvasNameLength is the maximum length for canvas names.
	MaxCanvasNameLength = 255

	// MaxTitleLength applies to task, project, event and script titles.
	MaxTitleLength = 255

	// MaxFileURLLength bounds stored file locations.
	MaxFileURLLength = 2048

	// DefaultDeleteBatchSize is the number of ids per DELETE during a cascade.
	DefaultDeleteBatchSize = 100

	// DefaultActivityLimit and MaxActivityLimit bound activity feed reads.
	DefaultActivityLimit = 10
	MaxActivityLimit     = 100

	// MaxUploadBytes is the default upload size cap (25MB).
	MaxUploadBytes = 25 << 20
)
