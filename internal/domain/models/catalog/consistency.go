package catalog

// IssueKind classifies a consistency problem
type IssueKind string

const (
	IssueCycle          IssueKind = "cycle"
	IssueDanglingParent IssueKind = "dangling_parent"
	IssuePathMismatch   IssueKind = "path_mismatch"
	IssueDuplicateCode  IssueKind = "duplicate_code"
)

// Issue is one finding of the consistency checker
type Issue struct {
	Kind     IssueKind `json:"kind"`
	FolderID string    `json:"folder_id,omitempty"`
	Message  string    `json:"message"`
	Expected string    `json:"expected,omitempty"`
	Actual   string    `json:"actual,omitempty"`
}

// ConsistencyReport is the read-only diagnostic over one structure's folders
type ConsistencyReport struct {
	Structure    string   `json:"structure"`
	StructureID  string   `json:"structure_id"`
	TotalFolders int      `json:"total_folders"`
	IssuesFound  int      `json:"issues_found"`
	Issues       []string `json:"issues"`
	Details      []Issue  `json:"details"`
	IsConsistent bool     `json:"is_consistent"`
}

// Add appends an issue and keeps the summary fields in step
func (r *ConsistencyReport) Add(issue Issue) {
	r.Details = append(r.Details, issue)
	r.Issues = append(r.Issues, issue.Message)
	r.IssuesFound = len(r.Details)
	r.IsConsistent = false
}
