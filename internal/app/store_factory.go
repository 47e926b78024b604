package app

import (
	"fmt"

	"github.com/shrimpsizemoose/rollbook/internal/store"
	"github.com/shrimpsizemoose/rollbook/internal/store/postgres"
	"github.com/shrimpsizemoose/rollbook/internal/store/sqlite"
)

func NewStore(dsn string) (store.AssessmentStore, error) {
	switch dbType := store.DetectType(dsn); dbType {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(dsn)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(dsn)
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", dsn)
	}
}
