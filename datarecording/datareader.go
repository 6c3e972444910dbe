package datarecording

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/structs"
)

// SQLiteReader reads recorded data back from a SQLite database, mostly for
// verification and post-processing.
type SQLiteReader struct {
	*sql.DB

	typeMap map[string]reflect.Type
}

// NewSQLiteReader creates a reader over the database file at path.
func NewSQLiteReader(path string) *SQLiteReader {
	if !strings.HasSuffix(path, ".sqlite3") {
		path += ".sqlite3"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		panic(err)
	}

	return &SQLiteReader{
		DB:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

// MapTable associates a table with the struct type its rows decode into.
// The mapping is required before querying the table.
func (r *SQLiteReader) MapTable(tableName string, sampleEntry any) {
	r.typeMap[tableName] = reflect.TypeOf(sampleEntry)
}

// QueryAll returns every row of the table in insertion order.
func (r *SQLiteReader) QueryAll(tableName string) ([]any, error) {
	structType, ok := r.typeMap[tableName]
	if !ok {
		return nil, fmt.Errorf("table %s is not mapped", tableName)
	}

	columns := structs.Names(reflect.New(structType).Elem().Interface())
	querySQL := "SELECT " + strings.Join(columns, ", ") +
		" FROM " + tableName

	rows, err := r.Query(querySQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []any

	for rows.Next() {
		entry := reflect.New(structType).Elem()

		fields := make([]any, entry.NumField())
		for i := range fields {
			fields[i] = entry.Field(i).Addr().Interface()
		}

		if err := rows.Scan(fields...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}
