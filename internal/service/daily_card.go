package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"MysticTarot/config"
	"MysticTarot/internal/cache"
	"MysticTarot/internal/deck"
	"MysticTarot/internal/model"
	"MysticTarot/internal/model/dto"
	"MysticTarot/internal/mysticday"
	"MysticTarot/internal/store"
	pkgerrors "MysticTarot/pkg/errors"
	"MysticTarot/pkg/logger"
	"MysticTarot/pkg/metrics"
	"MysticTarot/pkg/oracle"
	"MysticTarot/pkg/snowflake"
)

// RemoteStore 跨设备的权威卡牌存储
type RemoteStore interface {
	Get(ctx context.Context, profileID, mysticDate string) (*model.DailyCard, error)
	PutIfAbsent(ctx context.Context, card *model.DailyCard) (*model.DailyCard, bool, error)
	Delete(ctx context.Context, profileID, mysticDate string) error
	ListRecent(ctx context.Context, profileID string, limit int) ([]*model.DailyCard, error)
}

// LocalCache 设备侧语义的本地镜像，读写失败都按未命中处理
type LocalCache interface {
	Get(ctx context.Context, profileID, mysticDate string) *model.DailyCard
	Set(ctx context.Context, card *model.DailyCard)
	Delete(ctx context.Context, profileID, mysticDate string)
	MarkSeen(ctx context.Context, profileID, mysticDate string)
	IsSeen(ctx context.Context, profileID, mysticDate string) bool
	ClearSeen(ctx context.Context, profileID, mysticDate string)
}

// resolveState 单个档案当天的解析状态
type resolveState int

const (
	stateUninitialized resolveState = iota
	stateChecking
	stateRevealed
	stateError
)

type profileState struct {
	mysticDate string
	state      resolveState
}

type DailyCardService struct {
	store  RemoteStore
	cache  LocalCache
	oracle oracle.Client

	now           func() time.Time
	nextID        func() (int64, error)
	oracleTimeout time.Duration

	mu        sync.Mutex
	states    map[string]*profileState
	sweepDate string
}

var (
	dailyCardService *DailyCardService
	dailyCardOnce    sync.Once
)

func DailyCard() *DailyCardService {
	dailyCardOnce.Do(func() {
		dailyCardService = NewDailyCardService(
			store.NewDailyCardStore(),
			redisCache{},
			oracle.GetClient(),
		)
	})
	return dailyCardService
}

func NewDailyCardService(remote RemoteStore, local LocalCache, client oracle.Client) *DailyCardService {
	timeout := 15 * time.Second
	if config.Cfg.OracleTimeoutSec > 0 {
		timeout = config.Cfg.OracleTimeout()
	}

	return &DailyCardService{
		store:         remote,
		cache:         local,
		oracle:        client,
		now:           time.Now,
		nextID:        snowflake.NextID,
		oracleTimeout: timeout,
		states:        make(map[string]*profileState),
	}
}

// stateFor 返回档案当天的状态，日期翻转后旧状态作废
func (s *DailyCardService) stateFor(profileID, mysticDate string) *profileState {
	// 日期翻转时顺手清掉所有旧条目，states 不随历史档案无限增长
	if s.sweepDate != mysticDate {
		for pid, st := range s.states {
			if st.mysticDate != mysticDate {
				delete(s.states, pid)
			}
		}
		s.sweepDate = mysticDate
	}

	st, ok := s.states[profileID]
	if !ok || st.mysticDate != mysticDate {
		st = &profileState{mysticDate: mysticDate, state: stateUninitialized}
		s.states[profileID] = st
	}
	return st
}

// GetStatus 返回当前神秘日的卡牌状态。
// 启动路径只查权威存储和本地缓存，查不到就停在未揭示，绝不触发生成。
func (s *DailyCardService) GetStatus(ctx context.Context, profileID string) (*dto.DailyCardStatusResponse, error) {
	now := s.now()
	mysticDate := mysticday.Date(now)

	resp := &dto.DailyCardStatusResponse{
		MysticDate: mysticDate,
		Revealed:   false,
	}

	card, err := s.store.Get(ctx, profileID, mysticDate)
	if err != nil {
		// 权威存储不可用时降级到本地缓存，而不是把错误抛给客户端
		logger.Logger.Warn("Remote store unavailable during status check, falling back to local cache",
			zap.String("profile_id", profileID),
			zap.String("mystic_date", mysticDate),
			zap.Error(err),
		)
		card = nil
	}

	if card == nil {
		card = s.cache.Get(ctx, profileID, mysticDate)
	} else {
		// 远端命中顺手回填本地镜像
		s.cache.Set(ctx, card)
	}

	s.mu.Lock()
	st := s.stateFor(profileID, mysticDate)
	if card != nil {
		st.state = stateRevealed
	}
	s.mu.Unlock()

	if card == nil {
		return resp, nil
	}

	resp.Revealed = true
	resp.RevealSeen = s.cache.IsSeen(ctx, profileID, mysticDate)
	resp.Card = s.toResponse(card, false)
	return resp, nil
}

// Draw 抽取当日卡牌。
// 同一档案同一天的并发抽取直接拒绝而不是排队；已有记录时返回已有记录。
// 显式抽卡总是先回查权威存储，跳过本地缓存，避免镜像过期导致分叉。
func (s *DailyCardService) Draw(ctx context.Context, profileID string, req *dto.DrawRequest) (*dto.DailyCardResponse, error) {
	now := s.now()
	mysticDate := mysticday.Date(now)

	characterID := deck.DefaultCharacterID
	if req != nil && req.CharacterID != "" {
		if !deck.IsKnownCharacter(req.CharacterID) {
			return nil, pkgerrors.CharacterUnknown
		}
		characterID = req.CharacterID
	}

	s.mu.Lock()
	st := s.stateFor(profileID, mysticDate)
	if st.state == stateChecking {
		s.mu.Unlock()
		return nil, pkgerrors.DrawInProgress
	}
	st.state = stateChecking
	s.mu.Unlock()

	card, firstReveal, err := s.resolveDraw(ctx, profileID, mysticDate, characterID, req, now)

	s.mu.Lock()
	if err != nil {
		st.state = stateError
	} else {
		st.state = stateRevealed
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	metrics.RecordDraw(drawSource(card, firstReveal), firstReveal)
	return s.toResponse(card, firstReveal), nil
}

func (s *DailyCardService) resolveDraw(
	ctx context.Context,
	profileID, mysticDate, characterID string,
	req *dto.DrawRequest,
	now time.Time,
) (*model.DailyCard, bool, error) {
	// 回查权威存储，别的设备可能已经抽过
	existing, err := s.store.Get(ctx, profileID, mysticDate)
	if err != nil {
		// 权威存储不可用不中断抽卡：本地镜像有今天的牌就用它，否则继续生成
		logger.Logger.Warn("Remote store unavailable during draw re-check, degrading",
			zap.String("profile_id", profileID),
			zap.String("mystic_date", mysticDate),
			zap.Error(err),
		)
		if cached := s.cache.Get(ctx, profileID, mysticDate); cached != nil {
			return cached, false, nil
		}
	}
	if existing != nil {
		s.cache.Set(ctx, existing)
		return existing, false, nil
	}

	// 客户端已断开时没人看结果，不再继续生成
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	candidate := s.generate(ctx, profileID, mysticDate, characterID, req, now)

	id, err := s.nextID()
	if err != nil {
		// ID 发不出来就不落库，这张牌只在本设备当天生效
		logger.Logger.Warn("Failed to generate daily card id, serving from local cache only",
			zap.String("profile_id", profileID),
			zap.String("mystic_date", mysticDate),
			zap.Error(err),
		)
		s.cache.Set(ctx, candidate)
		return candidate, true, nil
	}
	candidate.ID = id

	// 第一个写入者获胜，输了就采纳赢家的记录
	winner, won, err := s.store.PutIfAbsent(ctx, candidate)
	if err != nil {
		// 权威存储写不进去也要给牌，至少让本设备当天稳定
		logger.Logger.Warn("Failed to persist daily card, serving from local cache only",
			zap.String("profile_id", profileID),
			zap.String("mystic_date", mysticDate),
			zap.Error(err),
		)
		s.cache.Set(ctx, candidate)
		return candidate, true, nil
	}

	if !won {
		logger.Logger.Info("Lost daily card write race, adopting winner",
			zap.String("profile_id", profileID),
			zap.String("mystic_date", mysticDate),
			zap.String("winner_card", winner.CardName),
		)
	}

	s.cache.Set(ctx, winner)
	return winner, won, nil
}

// generate 生成候选卡牌：先问上游 oracle，失败或超时落到确定性回退牌
func (s *DailyCardService) generate(
	ctx context.Context,
	profileID, mysticDate, characterID string,
	req *dto.DrawRequest,
	now time.Time,
) *model.DailyCard {
	question := ""
	if req != nil {
		question = req.Question
	}

	oracleCtx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()

	reading, err := s.oracle.DrawReading(oracleCtx, &oracle.Request{
		ProfileID:   profileID,
		MysticDate:  mysticDate,
		Question:    question,
		CharacterID: characterID,
	})
	if err == nil {
		return &model.DailyCard{
			ProfileID:      profileID,
			MysticDate:     mysticDate,
			CardName:       reading.CardName,
			Upright:        reading.Upright,
			ImageRef:       reading.ImageRef,
			Interpretation: reading.Interpretation,
			Summary:        reading.Summary,
			CharacterID:    characterID,
			Source:         model.CardSourceOracle,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}

	// 上游失败永远不暴露给客户端，换成按日期确定的回退牌
	logger.Logger.Warn("Oracle reading failed, using deterministic fallback card",
		zap.String("profile_id", profileID),
		zap.String("mystic_date", mysticDate),
		zap.Error(err),
	)

	fallback := deck.Fallback(now)
	return &model.DailyCard{
		ProfileID:      profileID,
		MysticDate:     mysticDate,
		CardName:       fallback.Name,
		Upright:        fallback.Upright,
		Interpretation: deck.FallbackReading(characterID, fallback.Name, fallback.Upright),
		Summary:        fallback.Message,
		CharacterID:    characterID,
		Source:         model.CardSourceFallback,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// MarkRevealSeen 标记当日翻牌动画已播放，重复调用幂等
func (s *DailyCardService) MarkRevealSeen(ctx context.Context, profileID string) error {
	now := s.now()
	mysticDate := mysticday.Date(now)

	card, err := s.store.Get(ctx, profileID, mysticDate)
	if err != nil {
		logger.Logger.Warn("Remote store unavailable during seen check, falling back to local cache",
			zap.String("profile_id", profileID),
			zap.Error(err),
		)
		card = nil
	}
	if card == nil {
		card = s.cache.Get(ctx, profileID, mysticDate)
	}
	if card == nil {
		// 还没抽牌时静默忽略，不设标记也不报错
		return nil
	}

	s.cache.MarkSeen(ctx, profileID, mysticDate)
	return nil
}

// ForceRefresh 丢弃当日记录并立即重抽，handler 层限制为开发环境
func (s *DailyCardService) ForceRefresh(ctx context.Context, profileID string, req *dto.DrawRequest) (*dto.DailyCardResponse, error) {
	now := s.now()
	mysticDate := mysticday.Date(now)

	if err := s.store.Delete(ctx, profileID, mysticDate); err != nil {
		return nil, fmt.Errorf("failed to delete daily card for refresh: %w", err)
	}
	s.cache.Delete(ctx, profileID, mysticDate)
	s.cache.ClearSeen(ctx, profileID, mysticDate)

	s.mu.Lock()
	delete(s.states, profileID)
	s.mu.Unlock()

	logger.Logger.Info("Force refreshed daily card",
		zap.String("profile_id", profileID),
		zap.String("mystic_date", mysticDate),
	)

	return s.Draw(ctx, profileID, req)
}

// GetHistory 返回最近的卡牌历史
func (s *DailyCardService) GetHistory(ctx context.Context, profileID string, limit int) ([]dto.CardHistoryItem, error) {
	cards, err := s.store.ListRecent(ctx, profileID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CardHistoryItem, 0, len(cards))
	for _, card := range cards {
		items = append(items, dto.CardHistoryItem{
			MysticDate: card.MysticDate,
			CardName:   card.CardName,
			AssetName:  deck.AssetName(card.CardName),
			Upright:    card.Upright,
			Summary:    card.Summary,
			RevealedAt: card.CreatedAt,
		})
	}
	return items, nil
}

func (s *DailyCardService) toResponse(card *model.DailyCard, firstReveal bool) *dto.DailyCardResponse {
	return &dto.DailyCardResponse{
		MysticDate:     card.MysticDate,
		CardName:       card.CardName,
		AssetName:      deck.AssetName(card.CardName),
		Upright:        card.Upright,
		ImageRef:       card.ImageRef,
		Interpretation: card.Interpretation,
		Summary:        card.Summary,
		CharacterID:    card.CharacterID,
		Source:         string(card.Source),
		IsFirstReveal:  firstReveal,
		RevealedAt:     card.CreatedAt,
	}
}

func drawSource(card *model.DailyCard, firstReveal bool) string {
	if !firstReveal {
		return "remote"
	}
	if card.Source == model.CardSourceFallback {
		return "fallback"
	}
	return "generated"
}

// redisCache 把 cache 包的函数适配到 LocalCache 接口
type redisCache struct{}

func (redisCache) Get(ctx context.Context, profileID, mysticDate string) *model.DailyCard {
	return cache.GetDailyCard(ctx, profileID, mysticDate)
}

func (redisCache) Set(ctx context.Context, card *model.DailyCard) {
	cache.SetDailyCard(ctx, card)
}

func (redisCache) Delete(ctx context.Context, profileID, mysticDate string) {
	cache.DeleteDailyCard(ctx, profileID, mysticDate)
}

func (redisCache) MarkSeen(ctx context.Context, profileID, mysticDate string) {
	cache.MarkRevealSeen(ctx, profileID, mysticDate)
}

func (redisCache) IsSeen(ctx context.Context, profileID, mysticDate string) bool {
	return cache.IsRevealSeen(ctx, profileID, mysticDate)
}

func (redisCache) ClearSeen(ctx context.Context, profileID, mysticDate string) {
	cache.ClearRevealSeen(ctx, profileID, mysticDate)
}
