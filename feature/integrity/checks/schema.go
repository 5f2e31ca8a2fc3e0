package checks

import (
	"fmt"

	"replay-scheduler/core/database"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing the database against the scheduler models.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
}

// TableReport is the state of one table.
type TableReport struct {
	Exists         bool     `json:"exists"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies every scheduler table and column exists, using the
// GORM models as the source of truth.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
	}
	migrator := db.Migrator()

	for _, model := range database.Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}

		table := TableReport{MissingColumns: []string{}, Status: "ok"}
		if !migrator.HasTable(model) {
			table.Status = "error"
			report.Matched = false
			report.Tables[stmt.Schema.Table] = table
			continue
		}
		table.Exists = true

		for _, column := range stmt.Schema.DBNames {
			if !migrator.HasColumn(model, column) {
				table.MissingColumns = append(table.MissingColumns, column)
				table.Status = "error"
				report.Matched = false
			}
		}
		report.Tables[stmt.Schema.Table] = table
	}
	return report, nil
}

// FixSchema creates the missing tables and columns.
func FixSchema(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return database.Migrate(db)
}
