package catalog

// FolderTree is the nested folder hierarchy of one structure
type FolderTree struct {
	Structure StructureSummary  `json:"structure"`
	Tree      []*FolderTreeNode `json:"tree"`
}

// StructureSummary is the short form of a structure used in responses
type StructureSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// FolderTreeNode represents a folder in the tree with nested children
type FolderTreeNode struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Code             string            `json:"code"`
	MaterializedPath string            `json:"materialized_path"`
	Attributes       map[string]string `json:"attributes"`
	HasChildren      bool              `json:"has_children"`
	Children         []*FolderTreeNode `json:"children"` // Pointers for proper nesting
}
