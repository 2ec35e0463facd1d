package database

import (
	sqldb "github.com/fondspod/fondspod/internal/database/sqlc"
)

// ClassificationRecordFromRow converts a fond_classifications row.
func ClassificationRecordFromRow(row sqldb.FondClassification) ClassificationRecord {
	return ClassificationRecord{
		Code:           row.Code,
		Name:           row.Name,
		ParentCode:     optionalString(row.ParentCode),
		Active:         row.Active != 0,
		SortOrder:      row.SortOrder,
		CreatedBy:      row.CreatedBy,
		CreatedMachine: row.CreatedMachine,
		CreatedAt:      optionalTime(row.CreatedAt),
	}
}

func ClassificationRecordsFromRows(rows []sqldb.FondClassification) []ClassificationRecord {
	result := make([]ClassificationRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, ClassificationRecordFromRow(row))
	}
	return result
}

func SchemaRecordFromRow(row sqldb.Schema) SchemaRecord {
	return SchemaRecord{
		SchemaNo:       row.SchemaNo,
		Name:           row.Name,
		SortOrder:      row.SortOrder,
		CreatedBy:      row.CreatedBy,
		CreatedMachine: row.CreatedMachine,
		CreatedAt:      optionalTime(row.CreatedAt),
	}
}

func SchemaItemRecordFromRow(row sqldb.SchemaItem) SchemaItemRecord {
	return SchemaItemRecord{
		SchemaNo:  row.SchemaNo,
		ItemNo:    row.ItemNo,
		ItemName:  row.ItemName,
		CreatedAt: optionalTime(row.CreatedAt),
	}
}

func FondSchemaRecordFromRow(row sqldb.FondSchema) FondSchemaRecord {
	return FondSchemaRecord{
		FondNo:   row.FondNo,
		SchemaNo: row.SchemaNo,
		OrderNo:  row.OrderNo,
	}
}

func FondRecordFromRow(row sqldb.Fond) FondRecord {
	return FondRecord{
		FondNo:             row.FondNo,
		ClassificationCode: row.FondClassificationCode,
		Name:               row.Name,
		CreatedAt:          row.CreatedAt,
		CreatedBy:          row.CreatedBy,
		CreatedMachine:     row.CreatedMachine,
	}
}

func SeriesRecordFromRow(row sqldb.Series) SeriesRecord {
	return SeriesRecord{
		SeriesNo:  row.SeriesNo,
		FondNo:    row.FondNo,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
	}
}

func FileRecordFromRow(row sqldb.File) FileRecord {
	return FileRecord{
		FileNo:         row.FileNo,
		SeriesNo:       row.SeriesNo,
		Name:           row.Name,
		CreatedBy:      row.CreatedBy,
		CreatedMachine: row.CreatedMachine,
		CreatedAt:      optionalTime(row.CreatedAt),
	}
}

func ItemRecordFromRow(row sqldb.Item) ItemRecord {
	return ItemRecord{
		ItemNo:         row.ItemNo,
		FileNo:         row.FileNo,
		Name:           row.Name,
		Path:           optionalString(row.Path),
		CreatedBy:      row.CreatedBy,
		CreatedMachine: row.CreatedMachine,
		CreatedAt:      optionalTime(row.CreatedAt),
	}
}

func SequenceRecordFromRow(row sqldb.Sequence) SequenceRecord {
	return SequenceRecord{
		Prefix:    row.Prefix,
		NextValue: row.NextValue,
		Digits:    row.Digits,
		CreatedAt: optionalTime(row.CreatedAt),
		UpdatedAt: optionalTime(row.UpdatedAt),
	}
}
