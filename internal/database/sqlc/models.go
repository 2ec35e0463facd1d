package sqldb

import (
	"database/sql"
	"time"
)

type FondClassification struct {
	Code           string
	Name           string
	ParentCode     sql.NullString
	Active         int64
	SortOrder      int64
	CreatedBy      string
	CreatedMachine string
	CreatedAt      sql.NullTime
}

type Schema struct {
	SchemaNo       string
	Name           string
	SortOrder      int64
	CreatedBy      string
	CreatedMachine string
	CreatedAt      sql.NullTime
}

type SchemaItem struct {
	SchemaNo  string
	ItemNo    string
	ItemName  string
	CreatedAt sql.NullTime
}

type Fond struct {
	FondNo                 string
	FondClassificationCode string
	Name                   string
	CreatedAt              string
	CreatedBy              string
	CreatedMachine         string
}

type FondSchema struct {
	FondNo   string
	SchemaNo string
	OrderNo  int64
}

type Series struct {
	SeriesNo  string
	FondNo    string
	Name      string
	CreatedAt time.Time
}

type File struct {
	FileNo         string
	SeriesNo       string
	Name           string
	CreatedBy      string
	CreatedMachine string
	CreatedAt      sql.NullTime
}

type Item struct {
	ItemNo         string
	FileNo         string
	Name           string
	Path           sql.NullString
	CreatedBy      string
	CreatedMachine string
	CreatedAt      sql.NullTime
}

type Sequence struct {
	Prefix    string
	NextValue int64
	Digits    int64
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
}
