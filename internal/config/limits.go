package config

const (
	// MaxStructureNameLength fits structures.name VARCHAR(255)
	MaxStructureNameLength = 255

	// MaxFolderNameLength fits folders.name VARCHAR(255)
	MaxFolderNameLength = 255

	// MaxDocumentNameLength fits documents.name VARCHAR(500)
	MaxDocumentNameLength = 500

	// MaxCodeLength applies to folder and document codes
	MaxCodeLength = 255

	// MaxUploadBytes is the default cap on one uploaded XML file
	MaxUploadBytes int64 = 50 << 20

	// Default result caps
	DefaultFolderSearchLimit   = 50
	DefaultDocumentSearchLimit = 100
)
