package database

import "time"

// ClassificationRecord is a node of the two-level classification tree. An
// empty ParentCode marks a top-level node.
type ClassificationRecord struct {
	Code           string
	Name           string
	ParentCode     string
	Active         bool
	SortOrder      int64
	CreatedBy      string
	CreatedMachine string
	CreatedAt      time.Time
}

// IsTop reports whether the node has no parent.
func (r ClassificationRecord) IsTop() bool {
	return r.ParentCode == ""
}

// SchemaRecord is a named dimension used to generate series.
type SchemaRecord struct {
	SchemaNo       string
	Name           string
	SortOrder      int64
	CreatedBy      string
	CreatedMachine string
	CreatedAt      time.Time
}

// SchemaItemRecord is one value of a schema dimension.
type SchemaItemRecord struct {
	SchemaNo  string
	ItemNo    string
	ItemName  string
	CreatedAt time.Time
}

// FondSchemaRecord links a schema to a fond at a position in the series number.
type FondSchemaRecord struct {
	FondNo   string
	SchemaNo string
	OrderNo  int64
}

// FondRecord is a fond. CreatedAt keeps the user-supplied text whose leading
// year drives Year expansion.
type FondRecord struct {
	FondNo             string
	ClassificationCode string
	Name               string
	CreatedAt          string
	CreatedBy          string
	CreatedMachine     string
}

type SeriesRecord struct {
	SeriesNo  string
	FondNo    string
	Name      string
	CreatedAt time.Time
}

type FileRecord struct {
	FileNo         string
	SeriesNo       string
	Name           string
	CreatedBy      string
	CreatedMachine string
	CreatedAt      time.Time
}

type ItemRecord struct {
	ItemNo         string
	FileNo         string
	Name           string
	Path           string
	CreatedBy      string
	CreatedMachine string
	CreatedAt      time.Time
}

// SequenceRecord is a persisted counter; NextValue is the value the next call returns.
type SequenceRecord struct {
	Prefix    string
	NextValue int64
	Digits    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
