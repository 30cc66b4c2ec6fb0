package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/avvalues/trade-hub/dto"
	"github.com/avvalues/trade-hub/model"
	"github.com/avvalues/trade-hub/services/repositories"
	"github.com/avvalues/trade-hub/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const TRADE_SVC = "trade_svc"

const (
	outcomeAccepted       = "accepted"
	outcomeInvalid        = "invalid"
	outcomeRateLimited    = "rate_limited"
	outcomeWindowExceeded = "window_exceeded"
	outcomeDuplicate      = "duplicate"
	outcomeError          = "error"
)

type TradeStore interface {
	TradeHistory
	DuplicateLookup
	CreateTrade(ctx context.Context, trade *model.Trade) (*model.Trade, error)
	ListTrades(ctx context.Context, search string, since time.Time, limit int) ([]model.Trade, error)
	DeleteAllTrades(ctx context.Context) (int64, error)
	CountTrades(ctx context.Context, since time.Time) (int64, error)
}

type RateLimiter interface {
	CheckAndRecord(ctx context.Context, fp model.Fingerprint, now time.Time) (*dto.RateLimitInfo, error)
	RejectionMessage(info *dto.RateLimitInfo) string
}

type Moderator interface {
	Sanitize(ctx context.Context, title, description string) (string, string, error)
	CountBannedWords(ctx context.Context) (int64, error)
}

type BucketCounter interface {
	CountBuckets(ctx context.Context) (int64, error)
}

// TradeService accepts or rejects trade posts. Checks run cheapest first and the
// first failing check ends the request.
type TradeService struct {
	appContext.DefaultService

	trades     TradeStore
	limiter    RateLimiter
	moderation Moderator
	publisher  TradePublisher
	buckets    BucketCounter

	window     *WindowQuota
	duplicates *DuplicateGuard
	limits     TradeLimits
	now        func() time.Time
}

func NewTradeService(trades TradeStore, limiter RateLimiter, moderation Moderator, publisher TradePublisher, limits TradeLimits) *TradeService {
	svc := &TradeService{
		trades:     trades,
		limiter:    limiter,
		moderation: moderation,
		publisher:  publisher,
		limits:     limits,
		now:        time.Now,
	}
	svc.init()
	return svc
}

func (svc TradeService) Id() string {
	return TRADE_SVC
}

func (svc *TradeService) Configure(ctx *appContext.Context) error {
	svc.limits = LoadTradeLimits()
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *TradeService) Start() error {
	db := svc.Service(DATABASE_SVC).(*DatabaseService).Db()

	svc.trades = repositories.NewTradeRepository(db)
	svc.limiter = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.moderation = svc.Service(MODERATION_SVC).(*ModerationService)
	svc.publisher = svc.Service(EVENTS_SVC).(*EventService)
	if shared.GetEnvString("RATE_LIMIT_BACKEND", RateLimitBackendDatabase) == RateLimitBackendDatabase {
		svc.buckets = repositories.NewRateBucketRepository(db)
	}

	svc.init()
	return nil
}

func (svc *TradeService) init() {
	svc.window = NewWindowQuota(svc.trades, svc.limits.WindowLimit, svc.limits.Window)
	svc.duplicates = NewDuplicateGuard(svc.trades, svc.limits.TradeRetention)
}

func (svc *TradeService) SubmitTrade(ctx context.Context, req dto.SubmitTradeRequest, client dto.ClientInfo) (*model.Trade, error) {
	if err := req.Validate(); err != nil {
		recordTradeSubmission(outcomeInvalid)
		return nil, err
	}

	now := svc.now().UTC().Truncate(time.Millisecond)
	fp := model.NewFingerprint(client.IP, client.UserAgent)

	info, err := svc.limiter.CheckAndRecord(ctx, fp, now)
	if err != nil {
		return nil, svc.storeFailure(err, "rate limit check")
	}
	if !info.Allowed {
		recordTradeSubmission(outcomeRateLimited)
		return nil, shared.NewRateExceededError(svc.limiter.RejectionMessage(info), info.RetryAfter)
	}

	decision, err := svc.window.Check(ctx, fp, now)
	if err != nil {
		return nil, svc.storeFailure(err, "window check")
	}
	if !decision.Allowed {
		recordTradeSubmission(outcomeWindowExceeded)
		log.WithFields(log.Fields{
			"ip":          fp.IP,
			"in_window":   decision.InWindow,
			"retry_after": decision.RetryAfter.String(),
		}).Warn("Trade window quota exceeded")
		return nil, shared.NewWindowExceededError(fmt.Sprintf(
			"You can only post %d trades every %s. Please try again in %s.",
			svc.limits.WindowLimit, formatWindow(svc.limits.Window), FormatWait(decision.RetryAfter),
		), decision.RetryAfter)
	}

	title, description, err := svc.normalizeText(ctx, req)
	if err != nil {
		return nil, svc.storeFailure(err, "load banned words")
	}

	duplicate, err := svc.duplicates.IsDuplicate(ctx, fp, title, description, now)
	if err != nil {
		return nil, svc.storeFailure(err, "duplicate check")
	}
	if duplicate {
		recordTradeSubmission(outcomeDuplicate)
		return nil, shared.NewConflictError("Duplicate trade detected. Change the title or description before posting again.")
	}

	trade := svc.buildTrade(req, fp, title, description, now)
	created, err := svc.trades.CreateTrade(ctx, trade)
	if err != nil {
		return nil, svc.storeFailure(err, "insert trade")
	}
	recordTradeSubmission(outcomeAccepted)

	if svc.publisher != nil {
		if err := svc.publisher.PublishTradeAccepted(ctx, created); err != nil {
			log.WithError(err).WithField("trade_id", created.ID).Warn("Failed to publish trade event")
		}
	}

	return created, nil
}

// normalizeText produces the stored form of title and description: trimmed,
// filtered, then truncated. Duplicate detection compares this same form.
func (svc *TradeService) normalizeText(ctx context.Context, req dto.SubmitTradeRequest) (string, string, error) {
	title := ""
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if title == "" {
		title = DeriveTitle(req.Player1, req.Player2)
	}
	description := strings.TrimSpace(req.Description)

	title, description, err := svc.moderation.Sanitize(ctx, title, description)
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(shared.TruncateRunes(title, shared.MaxTitleLength))
	description = strings.TrimSpace(shared.TruncateRunes(description, shared.MaxDescriptionLength))
	return title, description, nil
}

func (svc *TradeService) buildTrade(req dto.SubmitTradeRequest, fp model.Fingerprint, title, description string, now time.Time) *model.Trade {
	p1Total := SumOfferValues(req.Player1)
	if req.P1Total != nil {
		p1Total = *req.P1Total
	}
	p2Total := SumOfferValues(req.Player2)
	if req.P2Total != nil {
		p2Total = *req.P2Total
	}

	verdict := ""
	if req.Verdict != nil {
		verdict = strings.TrimSpace(*req.Verdict)
	}
	if verdict == "" {
		verdict = ComputeVerdict(p1Total, p2Total)
	}

	return &model.Trade{
		Title:       title,
		Description: description,
		Player1:     datatypes.JSONSlice[model.OfferItem](req.Player1),
		Player2:     datatypes.JSONSlice[model.OfferItem](req.Player2),
		P1Total:     p1Total,
		P2Total:     p2Total,
		Verdict:     shared.TruncateRunes(verdict, shared.MaxVerdictLength),
		Discord:     shared.TruncateRunes(strings.TrimSpace(req.Discord), shared.MaxDiscordLength),
		Roblox:      shared.TruncateRunes(strings.TrimSpace(req.Roblox), shared.MaxRobloxLength),
		Fingerprint: fp.String(),
		IP:          fp.IP,
		UserAgent:   fp.UserAgent,
		CreatedAt:   now,
	}
}

// ListTrades returns up to ListLimit live trades, newest first.
func (svc *TradeService) ListTrades(ctx context.Context, search string) ([]model.Trade, error) {
	now := svc.now().UTC()
	trades, err := svc.trades.ListTrades(ctx, search, now.Add(-svc.limits.TradeRetention), svc.limits.ListLimit)
	if err != nil {
		return nil, shared.NewInternalError(handleStoreError(err), "Server error")
	}
	if trades == nil {
		trades = []model.Trade{}
	}
	return trades, nil
}

func (svc *TradeService) ClearTrades(ctx context.Context) (int64, error) {
	deleted, err := svc.trades.DeleteAllTrades(ctx)
	if err != nil {
		return 0, shared.NewInternalError(handleStoreError(err), "Server error")
	}

	log.WithField("deleted", deleted).Warn("All trades cleared by admin")
	return deleted, nil
}

// EvaluateTrade runs the value calculator without storing anything.
func (svc *TradeService) EvaluateTrade(req dto.EvaluateTradeRequest) (*dto.TradeEvaluation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p1Total := SumOfferValues(req.Player1)
	p2Total := SumOfferValues(req.Player2)
	difference := p2Total - p1Total
	if difference < 0 {
		difference = -difference
	}

	return &dto.TradeEvaluation{
		Title:      DeriveTitle(req.Player1, req.Player2),
		P1Total:    p1Total,
		P2Total:    p2Total,
		Difference: difference,
		Verdict:    ComputeVerdict(p1Total, p2Total),
	}, nil
}

func (svc *TradeService) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	now := svc.now().UTC()
	stats := &dto.StatsResponse{Success: true}

	var err error
	if stats.Trades, err = svc.trades.CountTrades(ctx, now.Add(-svc.limits.TradeRetention)); err != nil {
		return nil, shared.NewInternalError(handleStoreError(err), "Server error")
	}
	if stats.BannedWords, err = svc.moderation.CountBannedWords(ctx); err != nil {
		return nil, shared.NewInternalError(handleStoreError(err), "Server error")
	}
	if svc.buckets != nil {
		if stats.RateBuckets, err = svc.buckets.CountBuckets(ctx); err != nil {
			return nil, shared.NewInternalError(handleStoreError(err), "Server error")
		}
	}
	return stats, nil
}

func (svc *TradeService) storeFailure(err error, step string) error {
	recordTradeSubmission(outcomeError)
	return shared.NewInternalError(handleStoreError(fmt.Errorf("%s: %w", step, err)), "Server error")
}

func formatWindow(window time.Duration) string {
	if window%time.Hour == 0 {
		hours := int(window / time.Hour)
		if hours == 1 {
			return "hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return window.String()
}
