package tasks

import "time"

// Row is one registered scheduled task, flattened for tabular consumers.
// Every field is always populated; failed lookups leave the zero value.
type Row struct {
	Name           string `json:"name"`
	Path           string `json:"path"`
	Enabled        int    `json:"enabled"`
	Hidden         int    `json:"hidden"`
	State          string `json:"state"`
	LastRunCode    int64  `json:"last_run_code"`
	LastRunMessage string `json:"last_run_message"`
	LastRunTime    int64  `json:"last_run_time"`
	NextRunTime    int64  `json:"next_run_time"`
	Action         string `json:"action"`
}

// ColumnType is the SQL-ish type of a row column
type ColumnType string

const (
	ColumnText    ColumnType = "TEXT"
	ColumnInteger ColumnType = "INTEGER"
)

// Column describes one column of the scheduled tasks table
type Column struct {
	Name        string     `json:"name"`
	Type        ColumnType `json:"type"`
	Description string     `json:"description"`
}

// Columns is the fixed schema of Row, in output order.
var Columns = []Column{
	{Name: "name", Type: ColumnText, Description: "Name of the scheduled task"},
	{Name: "path", Type: ColumnText, Description: "Path to the task in the scheduler namespace"},
	{Name: "enabled", Type: ColumnInteger, Description: "Whether the task is enabled"},
	{Name: "hidden", Type: ColumnInteger, Description: "Whether the task is hidden"},
	{Name: "state", Type: ColumnText, Description: "State of the task"},
	{Name: "last_run_code", Type: ColumnInteger, Description: "Result code of the last run"},
	{Name: "last_run_message", Type: ColumnText, Description: "Message for the last run result code"},
	{Name: "last_run_time", Type: ColumnInteger, Description: "Unix timestamp of the last run"},
	{Name: "next_run_time", Type: ColumnInteger, Description: "Unix timestamp of the next scheduled run"},
	{Name: "action", Type: ColumnText, Description: "Comma separated list of exec actions"},
}

// Values returns the row fields in Columns order
func (r Row) Values() []any {
	return []any{
		r.Name,
		r.Path,
		r.Enabled,
		r.Hidden,
		r.State,
		r.LastRunCode,
		r.LastRunMessage,
		r.LastRunTime,
		r.NextRunTime,
		r.Action,
	}
}

// Stats counts what a collection skipped or defaulted
type Stats struct {
	FoldersVisited  int `json:"folders_visited"`
	FoldersSkipped  int `json:"folders_skipped"`
	TasksSkipped    int `json:"tasks_skipped"`
	FieldsDefaulted int `json:"fields_defaulted"`
	ActionsSkipped  int `json:"actions_skipped"`
}

// Snapshot is the result of one collection pass
type Snapshot struct {
	ID          string    `json:"id"`
	Host        string    `json:"host,omitempty"`
	CollectedAt time.Time `json:"collected_at"`
	Connected   bool      `json:"connected"`
	Rows        []Row     `json:"rows"`
	Total       int       `json:"total"`
	Stats       Stats     `json:"stats"`
}
