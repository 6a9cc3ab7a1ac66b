package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column Mismatch Report

Lists database columns that no field of the corresponding Go model maps to.
Run it with `portfolio-blog report`; `portfolio-blog generate` prints it too
after migrating.

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: blog_posts ---
Found 1 columns not accounted for in model:
  - legacy_views

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// Tables maps every table this service owns to its model.
func Tables() map[string]interface{} {
	return map[string]interface{}{
		"blog_posts": &BlogPost{},
	}
}

// GenerateModels migrates the schema and writes gorm/gen query helpers to outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 newLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(BlogPost{})

	fmt.Println("Migrating models...")
	if err := db.AutoMigrate(&BlogPost{}); err != nil {
		return fmt.Errorf("migrating models: %w", err)
	}
	fmt.Println("Database migration completed successfully!")

	if _, err := GenerateColumnMismatchReport(db, os.Stdout); err != nil {
		return err
	}

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport writes the report to out and returns the
// number of unmapped columns.
func GenerateColumnMismatchReport(db *gorm.DB, out io.Writer) (int, error) {
	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")

	tables := Tables()
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	totalMismatches := 0
	for _, tableName := range names {
		fmt.Fprintf(out, "\n--- Table: %s ---\n", tableName)

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") {
				fmt.Fprintln(out, "Table does not exist yet (run migrate first)")
				continue
			}
			return totalMismatches, err
		}

		modelFields, err := getModelColumns(db, tables[tableName])
		if err != nil {
			return totalMismatches, err
		}

		mismatches := findColumnMismatches(dbColumns, modelFields)
		if len(mismatches) == 0 {
			fmt.Fprintln(out, "All columns are accounted for in the model.")
			continue
		}
		fmt.Fprintf(out, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(out, "  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches, nil
}

// getTableColumns retrieves column names from a database table
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}
	return columns, nil
}

// getModelColumns asks gorm which column names the model maps to.
func getModelColumns(db *gorm.DB, model interface{}) ([]string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("parsing model %T: %w", model, err)
	}
	return stmt.Schema.DBNames, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
