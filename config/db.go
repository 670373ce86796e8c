package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the SQL backend selected by DB_DRIVER (sqlite by default, or mysql).
func NewDB() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(GetEnv("DB_DRIVER", "sqlite")) {
	case "mysql":
		dialector = mysql.Open(mysqlDSN())
	case "sqlite":
		dialector = sqlite.Open(GetEnv("SQLITE_PATH", "ppe.db"))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", os.Getenv("DB_DRIVER"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger(os.Getenv("GORM_LOG")),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func mysqlDSN() string {
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		os.Getenv("MYSQL_USER"),
		os.Getenv("MYSQL_PASS"),
		GetEnv("MYSQL_HOST", "127.0.0.1"),
		GetEnv("MYSQL_PORT", "3306"),
		os.Getenv("MYSQL_DB"),
	)
}

func gormLogger(mode string) logger.Interface {
	level := logger.Warn
	switch strings.ToLower(mode) {
	case "off", "silent":
		level = logger.Silent
	case "info":
		level = logger.Info
	case "error":
		level = logger.Error
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
