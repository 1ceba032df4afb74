package models

// ColumnDescription describes one column of an explorable table.
type ColumnDescription struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
}

// TableDescription describes one table from the explorer allowlist.
type TableDescription struct {
	Name     string              `json:"name"`
	FullName string              `json:"full_name"` // catalog.schema.table
	Columns  []ColumnDescription `json:"columns"`
}
