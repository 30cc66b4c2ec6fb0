package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	"github.com/avvalues/trade-hub/model"
	"github.com/avvalues/trade-hub/services/repositories"
	"github.com/avvalues/trade-hub/shared"
	log "github.com/sirupsen/logrus"
)

const MODERATION_SVC = "moderation_svc"

type BannedWordStore interface {
	List(ctx context.Context) ([]model.BannedWord, error)
	ListWords(ctx context.Context) ([]string, error)
	Add(ctx context.Context, word string) (*model.BannedWord, error)
	Remove(ctx context.Context, word string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ModerationService applies the content filter with the current banned-word list
// and administers that list.
type ModerationService struct {
	appContext.DefaultService

	filter *ContentFilter
	words  BannedWordStore
}

func NewModerationService(words BannedWordStore) *ModerationService {
	return &ModerationService{filter: NewContentFilter(), words: words}
}

func (svc ModerationService) Id() string {
	return MODERATION_SVC
}

func (svc *ModerationService) Configure(ctx *appContext.Context) error {
	svc.filter = NewContentFilter()
	return svc.DefaultService.Configure(ctx)
}

func (svc *ModerationService) Start() error {
	dbSvc := svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.words = repositories.NewBannedWordRepository(dbSvc.Db())
	return nil
}

// Sanitize filters both free-text fields against a freshly loaded banned-word list.
// An empty list leaves only the dictionary pass.
func (svc *ModerationService) Sanitize(ctx context.Context, title, description string) (string, string, error) {
	words, err := svc.words.ListWords(ctx)
	if err != nil {
		return "", "", err
	}
	return svc.filter.Filter(title, words), svc.filter.Filter(description, words), nil
}

func (svc *ModerationService) ListBannedWords(ctx context.Context) ([]model.BannedWord, error) {
	words, err := svc.words.List(ctx)
	if err != nil {
		return nil, shared.NewInternalError(handleStoreError(err), "Server error")
	}
	if words == nil {
		words = []model.BannedWord{}
	}
	return words, nil
}

func (svc *ModerationService) AddBannedWord(ctx context.Context, word string) (*model.BannedWord, error) {
	if repositories.NormalizeWord(word) == "" {
		return nil, shared.NewBadRequestError(nil, "word is required")
	}

	stored, err := svc.words.Add(ctx, word)
	if err != nil {
		return nil, shared.NewInternalError(handleStoreError(err), "Server error")
	}

	log.WithField("word", stored.Word).Info("Banned word added")
	return stored, nil
}

func (svc *ModerationService) RemoveBannedWord(ctx context.Context, word string) error {
	removed, err := svc.words.Remove(ctx, word)
	if err != nil {
		return shared.NewInternalError(handleStoreError(err), "Server error")
	}
	if !removed {
		return shared.NewNotFoundError("Banned word not found")
	}

	normalized := repositories.NormalizeWord(word)
	svc.filter.Forget(normalized)

	log.WithField("word", normalized).Info("Banned word removed")
	return nil
}

func (svc *ModerationService) CountBannedWords(ctx context.Context) (int64, error) {
	return svc.words.Count(ctx)
}
