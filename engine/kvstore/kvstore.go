package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/Daskott/raksha/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "raksha.db"

var ErrKeyNotFound = errors.New("key not found")

// Entry is a single row of the key/value table
type Entry struct {
	Key       string    `gorm:"primarykey"`
	Value     []byte    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a durable key/value store backed by an encrypted sqlite db
type Store struct {
	db   *gorm.DB
	path string
}

// Open opens (or creates) the encrypted db in '<rootDir>/db' and migrates the schema
func Open(passPhrase string, rootDir string) (*Store, error) {
	dbDir, err := DbDirectory(rootDir)
	if err != nil {
		return nil, err
	}

	dbFilePath := filepath.Join(dbDir, DB_NAME)
	db, err := gorm.Open(sqliteEncrypt.Open(dbDSN(passPhrase, dbFilePath)), &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %v", err)
	}

	if err = db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	return &Store{db: db, path: dbFilePath}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	entry := Entry{}
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, err
	}

	return entry.Value, nil
}

// Set writes value under key, overwriting any previous value
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Entry{Key: key, Value: value}).Error
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Entry{}, "key = ?", key).Error
}

// Checkpoint flushes the WAL into the main db file, so the file can be copied as is
func (s *Store) Checkpoint() error {
	return s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error
}

// Path returns the location of the db file on disk
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func dbDSN(passPhrase string, dbFilePath string) string {
	return fmt.Sprintf(
		"file:%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL",
		dbFilePath,
		url.QueryEscape(passPhrase),
	)
}

func DbDirectory(rootDir string) (string, error) {
	dbDir := filepath.Join(rootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}
