package database

import (
	"fmt"
	"log"
	"os"
	"sync"

	"ScheduleAssistantBot/internal/database/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var (
	instance *gorm.DB
	once     sync.Once
)

// GetConnect returns the shared database handle, opening it on first use.
// Connection parameters come from the environment.
func GetConnect() *gorm.DB {
	once.Do(func() {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			os.Getenv("DB_USERNAME"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_DATABASE"),
		)

		var err error
		instance, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatal("Database connection error: ", err)
		}

		sqlDB, err := instance.DB()
		if err != nil {
			log.Fatal("Database connection error: ", err)
		}

		if err = sqlDB.Ping(); err != nil {
			log.Fatal("Database ping error: ", err)
		}
	})

	return instance
}

// AutoMigrate creates or updates the schema for all calendar models.
func AutoMigrate() error {
	db := GetConnect()

	return db.AutoMigrate(
		&models.Event{},
		&models.Category{},
		&models.Conversation{},
		&models.ChatMessage{},
		&models.ChannelCursor{},
	)
}

// Store is the gorm-backed implementation of the store interfaces consumed
// by the calendar service, the reminder sweep and the ingestion agent.
type Store struct {
	db *gorm.DB
}

// NewStore wraps the shared connection.
func NewStore() *Store {
	return &Store{db: GetConnect()}
}

// NewStoreWithDB wraps an explicit connection, used by tests.
func NewStoreWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}
