package db

import (
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"garage/internal/model"
)

// Options tunes how the store is opened.
type Options struct {
	// Debug logs every statement.
	Debug bool
	// LogWriter receives GORM log lines. Defaults to stdout.
	LogWriter logger.Writer
}

// Open returns a connected GORM DB instance for the given driver.
// sqlite DSNs are file paths or file: URIs; mysql DSNs use the go-sql-driver format.
func Open(driver, dsn string, opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(sqliteDSN(dsn))
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}

	writer := opts.LogWriter
	if writer == nil {
		writer = stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		// lookups of unknown emails and item ids are not errors
		Logger: logger.New(writer, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if driver != "mysql" {
		// A single file does not benefit from many writers.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the tables. With reset the tables are dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	tables := []interface{}{
		&model.User{},
		&model.Item{},
		&model.AuthEvent{},
	}
	if reset {
		if err := db.Migrator().DropTable(tables...); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// sqliteDSN appends the connection pragmas mattn/go-sqlite3 understands.
func sqliteDSN(dsn string) string {
	switch dsn {
	case "":
		dsn = "garage.db"
	case ":memory:":
		return dsn
	}
	params := []string{"_busy_timeout=5000", "_foreign_keys=on"}
	if !strings.Contains(dsn, "mode=memory") {
		params = append(params, "_journal_mode=WAL")
	}

	var kept []string
	for _, p := range params {
		key := p[:strings.Index(p, "=")+1]
		if !strings.Contains(dsn, key) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	return dsn + sep + strings.Join(kept, "&")
}
