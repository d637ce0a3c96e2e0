package database

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"praktikmaal_backend/internal/config"
	"praktikmaal_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Goal{},
			&model.SupervisorSession{},
			&model.SupervisorCode{},
		)
		if err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	// Seed a first supervisor code so a fresh install can reach the
	// supervisor view. The code is printed once; rotate it afterwards.
	var count int64
	db.Model(&model.SupervisorCode{}).Count(&count)
	if count == 0 {
		code, err := randomCode(8)
		if err == nil {
			db.Create(&model.SupervisorCode{Code: code})
			log.Printf("Seeded supervisor code: %s", code)
		}
	}

	return db, nil
}

func randomCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
