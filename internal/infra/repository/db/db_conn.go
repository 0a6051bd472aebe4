package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GetDbConn 建立postgres連線
// 查詢log交給API層的zerolog middleware，gorm自身只回報慢查詢與錯誤
func GetDbConn(dbname, host, port, user, pas string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(buildDSN(dbname, host, port, user, pas, "disable")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

func buildDSN(dbname, host, port, user, pas, sslmode string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pas, dbname, sslmode)
}
