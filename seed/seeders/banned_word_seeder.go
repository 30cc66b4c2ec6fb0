package seeders

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/avvalues/trade-hub/services/repositories"
	"gorm.io/gorm"
)

// DefaultBannedWords covers the usual trade-board scam bait.
var DefaultBannedWords = []string{
	"scam",
	"scammer",
	"free robux",
	"robux generator",
	"account sharing",
	"password",
}

type BannedWordSeeder struct {
	repo *repositories.BannedWordRepository
}

func NewBannedWordSeeder(db *gorm.DB) *BannedWordSeeder {
	return &BannedWordSeeder{repo: repositories.NewBannedWordRepository(db)}
}

// SeedBannedWords inserts words that are not stored yet and returns how many were new.
func (s *BannedWordSeeder) SeedBannedWords(ctx context.Context, words []string) (int, error) {
	before, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}

	for _, word := range words {
		if repositories.NormalizeWord(word) == "" {
			continue
		}
		if _, err := s.repo.Add(ctx, word); err != nil {
			return 0, err
		}
	}

	after, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	return int(after - before), nil
}

// ParseWordList reads one word or phrase per line. Blank lines and lines starting
// with # are skipped.
func ParseWordList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}
