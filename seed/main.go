package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/avvalues/trade-hub/seed/seeders"
	"github.com/avvalues/trade-hub/services"
	"github.com/avvalues/trade-hub/shared"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		driver   = flag.String("driver", "", "Database driver: postgres or sqlite (overrides DB_DRIVER)")
		wordList = flag.String("words", "", "Comma separated banned words")
		wordFile = flag.String("file", "", "File with one banned word per line")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	dbDriver := *driver
	if dbDriver == "" {
		dbDriver = shared.GetEnvString("DB_DRIVER", services.DriverPostgres)
	}

	dialector, err := services.Dialector(dbDriver)
	if err != nil {
		log.Fatalf("Invalid database driver: %v", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Connected to %s database", dbDriver)

	var words []string
	for _, w := range strings.Split(*wordList, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}

	if *wordFile != "" {
		f, err := os.Open(*wordFile)
		if err != nil {
			log.Fatalf("Failed to open word file: %v", err)
		}
		fromFile, err := seeders.ParseWordList(f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to read word file: %v", err)
		}
		words = append(words, fromFile...)
	}

	if err := seeders.NewMainSeeder(db).SeedAll(context.Background(), words); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Seeding operation completed successfully!")
}

func showHelp() {
	log.Println(`
Banned word seeding tool for the Trade Hub

Usage: go run ./seed [flags]

Flags:
  -driver string
        postgres or sqlite (default from DB_DRIVER)
  -words string
        Comma separated banned words
  -file string
        File with one banned word per line, # for comments
  -help
        Show this help message

With neither -words nor -file the default word list is seeded.

Examples:
  go run ./seed -driver=sqlite -words="scam,free robux"
  go run ./seed -file=banned.txt

Environment Variables:
  DB_DRIVER, DATABASE_URL, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_DATABASE
`)
}
