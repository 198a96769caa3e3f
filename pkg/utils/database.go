package utils

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	puresqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite     = "sqlite"
	DriverPureSQLite = "sqlite-pure"
	DriverMySQL      = "mysql"
	DriverPostgres   = "postgres"
)

// InitDatabase opens a gorm connection for driver/dsn. SQL logs go to logWriter.
func InitDatabase(logWriter io.Writer, driver, dsn string) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	if logWriter == nil {
		logWriter = io.Discard
	}
	newLogger := logger.New(
		log.New(logWriter, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Dialector picks the gorm dialector for driver
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "", DriverSQLite, "sqlite3":
		return sqlite.Open(dsn), nil
	case DriverPureSQLite:
		// no cgo
		return puresqlite.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres, "pg", "postgresql":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// MakeMigrates runs AutoMigrate for every model in order
func MakeMigrates(db *gorm.DB, insts []any) error {
	for _, inst := range insts {
		if err := db.AutoMigrate(inst); err != nil {
			return err
		}
	}
	return nil
}
