// Package testing provides test utilities and database setup for testing the feedback pipeline
package testing

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq" // PostgreSQL driver for the admin bootstrap connection
	"github.com/ratetap/ratetap/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDBConfig holds configuration for test database connections
type TestDBConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	SSLMode  string
}

// GetTestDBConfig loads test database configuration from environment variables.
// The default driver is an isolated in-memory SQLite database so the suite
// needs no running server; set TEST_DB_DRIVER=postgres to run against a real
// PostgreSQL instance instead.
func GetTestDBConfig() *TestDBConfig {
	config := &TestDBConfig{
		Driver:   getEnv("TEST_DB_DRIVER", "sqlite"),
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		SSLMode:  getEnv("TEST_DB_SSL_MODE", "disable"),
	}
	return config
}

// TestDB represents a test database instance
type TestDB struct {
	DB     *gorm.DB
	Name   string
	config *TestDBConfig
}

// SetupTestDB creates a new test database and migrates the domain schema.
// TranslateError is enabled to match production so unique-index violations
// surface as gorm.ErrDuplicatedKey on both drivers.
func SetupTestDB() (*TestDB, error) {
	config := GetTestDBConfig()

	if config.Driver == "postgres" {
		return setupPostgresDB(config)
	}
	return setupSQLiteDB(config)
}

func setupSQLiteDB(config *TestDBConfig) (*TestDB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	// The in-memory database lives on a single connection; a second
	// connection would see an empty schema.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := migrateDomainSchema(db); err != nil {
		return nil, fmt.Errorf("failed to migrate in-memory database: %w", err)
	}

	return &TestDB{
		DB:     db,
		Name:   ":memory:",
		config: config,
	}, nil
}

func setupPostgresDB(config *TestDBConfig) (*TestDB, error) {
	// Generate unique database name using timestamp and random number
	dbName := fmt.Sprintf("ratetap_test_%d_%d", time.Now().Unix(), rand.Intn(10000))

	// Connect to the PostgreSQL server (without a specific database) to
	// create the test database. CREATE DATABASE cannot run inside a
	// transaction, so this uses database/sql directly.
	adminDSN := fmt.Sprintf("host=%s port=%d user=%s password=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.SSLMode)

	adminDB, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if _, err := adminDB.Exec("CREATE DATABASE " + dbName); err != nil {
		adminDB.Close()
		return nil, fmt.Errorf("failed to create test database %s: %w", dbName, err)
	}
	adminDB.Close()

	// Connect to the new test database
	testDSN := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, dbName, config.SSLMode)

	testDB, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database %s: %w", dbName, err)
	}

	if err := migrateDomainSchema(testDB); err != nil {
		// Clean up on migration failure
		dropPostgresDB(config, dbName)
		return nil, fmt.Errorf("failed to migrate test database %s: %w", dbName, err)
	}

	return &TestDB{
		DB:     testDB,
		Name:   dbName,
		config: config,
	}, nil
}

// migrateDomainSchema creates the schema for the feedback pipeline. Order
// matters: referenced tables must exist before their referrers.
func migrateDomainSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Merchant{},
		&models.Location{},
		&models.IssuedCode{},
		&models.ScanEvent{},
		&models.ReviewSubmission{},
		&models.CTAClick{},
	)
}

// TeardownTestDB drops the test database and closes connections
func (tdb *TestDB) TeardownTestDB() error {
	if tdb.DB == nil {
		return nil
	}

	// Close test database connection
	sqlDB, err := tdb.DB.DB()
	if err == nil {
		sqlDB.Close()
	}

	// An in-memory database vanishes with its connection.
	if tdb.config.Driver != "postgres" {
		return nil
	}

	return dropPostgresDB(tdb.config, tdb.Name)
}

func dropPostgresDB(config *TestDBConfig, dbName string) error {
	adminDSN := fmt.Sprintf("host=%s port=%d user=%s password=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.SSLMode)

	adminDB, err := sql.Open("postgres", adminDSN)
	if err != nil {
		log.Printf("Warning: failed to connect to PostgreSQL for cleanup: %v", err)
		return err
	}
	defer adminDB.Close()

	// Force disconnect all connections to the test database
	_, err = adminDB.Exec(fmt.Sprintf(
		"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = '%s' AND pid <> pg_backend_pid()",
		dbName))
	if err != nil {
		log.Printf("Warning: failed to terminate connections to test database %s: %v", dbName, err)
	}

	// Drop the test database
	if _, err := adminDB.Exec("DROP DATABASE IF EXISTS " + dbName); err != nil {
		log.Printf("Warning: failed to drop test database %s: %v", dbName, err)
		return err
	}

	return nil
}

// ClearAllTables removes all data from tables while preserving structure
func (tdb *TestDB) ClearAllTables() error {
	// Order matters due to foreign key constraints
	tables := []string{
		"cta_clicks",
		"review_submissions",
		"scan_events",
		"issued_codes",
		"locations",
		"merchants",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// TestWithDB is a helper function that sets up a test database, runs the test function, and cleans up
func TestWithDB(testFunc func(*TestDB) error) error {
	testDB, err := SetupTestDB()
	if err != nil {
		return fmt.Errorf("failed to setup test database: %w", err)
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			log.Printf("Warning: failed to cleanup test database: %v", cleanupErr)
		}
	}()

	return testFunc(testDB)
}

// CreateTestContext creates a context for testing
func CreateTestContext() context.Context {
	return context.Background()
}
