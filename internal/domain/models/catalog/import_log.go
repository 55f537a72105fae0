package catalog

import "time"

// ImportOperation classifies an audit record
type ImportOperation string

const (
	OperationImport          ImportOperation = "IMPORT"
	OperationValidate        ImportOperation = "VALIDATE"
	OperationUpdate          ImportOperation = "UPDATE"
	OperationDelete          ImportOperation = "DELETE"
	OperationStructureImport ImportOperation = "STRUCTURE_IMPORT"
)

// ImportLog is an append-only audit record
type ImportLog struct {
	ID             string          `json:"id" db:"id"`
	Operation      ImportOperation `json:"operation_type" db:"operation_type"`
	Filename       string          `json:"filename" db:"filename"`
	Message        string          `json:"message" db:"message"`
	ItemsProcessed int             `json:"items_processed" db:"items_processed"`
	UserID         *string         `json:"user_id,omitempty" db:"user_id"`
	PerformedAt    time.Time       `json:"performed_at" db:"performed_at"`
}
