package config

import (
	"fmt"
	"log"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(s DatabaseSettings, production bool) error {
	// In production, suppress SQL logs unless explicitly re-enabled via DB_DEBUG_SQL=true.
	logLevel := logger.Info
	if production && !s.DebugSQL {
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	}

	db, err := gorm.Open(mysql.Open(s.DSN()), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(s.MaxOpenConns)
	sqlDB.SetMaxIdleConns(s.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(s.ConnMaxLifetime)

	DB = db
	Log.Info("database connected", zap.String("host", s.Host), zap.String("database", s.Database))
	return nil
}
