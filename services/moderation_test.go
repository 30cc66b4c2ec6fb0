package services

import (
	"context"
	"testing"

	"github.com/avvalues/trade-hub/services/repositories"
	"github.com/avvalues/trade-hub/shared"
)

func TestModerationService_RemoveDropsCachedPattern(t *testing.T) {
	svc := NewModerationService(repositories.NewBannedWordRepository(newTestDB(t)))
	ctx := context.Background()

	if _, err := svc.AddBannedWord(ctx, "Scam"); err != nil {
		t.Fatal(err)
	}
	title, _, err := svc.Sanitize(ctx, "scam alert", "")
	if err != nil {
		t.Fatal(err)
	}
	if title != "*** alert" {
		t.Errorf("title = %q", title)
	}

	if err := svc.RemoveBannedWord(ctx, " SCAM "); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.filter.patterns["scam"]; ok {
		t.Error("removed word is still cached")
	}

	title, _, err = svc.Sanitize(ctx, "scam alert", "")
	if err != nil {
		t.Fatal(err)
	}
	if title != "scam alert" {
		t.Errorf("removed word still masked: %q", title)
	}

	if err := svc.RemoveBannedWord(ctx, "scam"); !shared.IsKind(err, shared.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
