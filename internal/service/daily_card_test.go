package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MysticTarot/internal/model"
	"MysticTarot/internal/model/dto"
	"MysticTarot/internal/mysticday"
	pkgerrors "MysticTarot/pkg/errors"
	"MysticTarot/pkg/oracle"
)

// ---------- 测试替身 ----------

type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]*model.DailyCard
	getErr  error
	putErr  error
	putHook func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*model.DailyCard)}
}

func storeKey(profileID, mysticDate string) string {
	return profileID + "|" + mysticDate
}

func (f *fakeStore) Get(ctx context.Context, profileID, mysticDate string) (*model.DailyCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if card, ok := f.rows[storeKey(profileID, mysticDate)]; ok {
		copied := *card
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) PutIfAbsent(ctx context.Context, card *model.DailyCard) (*model.DailyCard, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, false, f.putErr
	}
	if f.putHook != nil {
		f.putHook()
	}
	key := storeKey(card.ProfileID, card.MysticDate)
	if existing, ok := f.rows[key]; ok {
		copied := *existing
		return &copied, false, nil
	}
	copied := *card
	f.rows[key] = &copied
	return card, true, nil
}

func (f *fakeStore) Delete(ctx context.Context, profileID, mysticDate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, storeKey(profileID, mysticDate))
	return nil
}

func (f *fakeStore) ListRecent(ctx context.Context, profileID string, limit int) ([]*model.DailyCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.DailyCard
	for _, card := range f.rows {
		if card.ProfileID == profileID {
			copied := *card
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu    sync.Mutex
	rows  map[string]*model.DailyCard
	seen  map[string]bool
	sets  int
	reads int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		rows: make(map[string]*model.DailyCard),
		seen: make(map[string]bool),
	}
}

func (f *fakeCache) Get(ctx context.Context, profileID, mysticDate string) *model.DailyCard {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if card, ok := f.rows[storeKey(profileID, mysticDate)]; ok {
		copied := *card
		return &copied
	}
	return nil
}

func (f *fakeCache) Set(ctx context.Context, card *model.DailyCard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	copied := *card
	f.rows[storeKey(card.ProfileID, card.MysticDate)] = &copied
}

func (f *fakeCache) Delete(ctx context.Context, profileID, mysticDate string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, storeKey(profileID, mysticDate))
}

func (f *fakeCache) MarkSeen(ctx context.Context, profileID, mysticDate string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[storeKey(profileID, mysticDate)] = true
}

func (f *fakeCache) IsSeen(ctx context.Context, profileID, mysticDate string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[storeKey(profileID, mysticDate)]
}

func (f *fakeCache) ClearSeen(ctx context.Context, profileID, mysticDate string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.seen, storeKey(profileID, mysticDate))
}

func newTestService(remote RemoteStore, local LocalCache, client oracle.Client, at time.Time) *DailyCardService {
	svc := NewDailyCardService(remote, local, client)
	svc.now = func() time.Time { return at }
	var counter int64 = 1000
	var mu sync.Mutex
	svc.nextID = func() (int64, error) {
		mu.Lock()
		defer mu.Unlock()
		counter++
		return counter, nil
	}
	return svc
}

var testTime = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

// ---------- 测试 ----------

func TestDrawGeneratesAndPersists(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	resp, err := svc.Draw(context.Background(), "p1", &dto.DrawRequest{Question: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-15", resp.MysticDate)
	assert.True(t, resp.IsFirstReveal)
	assert.Equal(t, "oracle", resp.Source)
	assert.NotEmpty(t, resp.Interpretation)

	// 权威存储和本地镜像都有记录
	stored, err := st.Get(context.Background(), "p1", "2024-06-15")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, resp.CardName, stored.CardName)
	assert.NotNil(t, ca.Get(context.Background(), "p1", "2024-06-15"))

	assert.Equal(t, 1, mock.CallCount())
}

func TestDrawIsIdempotentAcrossCalls(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	first, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	second, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	assert.Equal(t, first.CardName, second.CardName)
	assert.Equal(t, first.Upright, second.Upright)
	assert.True(t, first.IsFirstReveal)
	assert.False(t, second.IsFirstReveal)

	// 第二次抽取直接采纳已有记录，不再请求上游
	assert.Equal(t, 1, mock.CallCount())
}

func TestStatusNeverTriggersGeneration(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	resp, err := svc.GetStatus(context.Background(), "p1")
	require.NoError(t, err)

	assert.False(t, resp.Revealed)
	assert.Nil(t, resp.Card)
	assert.Equal(t, 0, mock.CallCount())
}

func TestStatusServesFromLocalCacheWhenRemoteDown(t *testing.T) {
	st := newFakeStore()
	st.getErr = errors.New("connection refused")
	ca := newFakeCache()
	ca.Set(context.Background(), &model.DailyCard{
		ProfileID:  "p1",
		MysticDate: "2024-06-15",
		CardName:   "The Moon",
		Source:     model.CardSourceOracle,
	})
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	resp, err := svc.GetStatus(context.Background(), "p1")
	require.NoError(t, err)

	assert.True(t, resp.Revealed)
	require.NotNil(t, resp.Card)
	assert.Equal(t, "The Moon", resp.Card.CardName)
	assert.Equal(t, 0, mock.CallCount())
}

func TestDrawFallsBackWhenOracleFails(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	mock.FailNext = true
	svc := newTestService(st, ca, mock, testTime)

	resp, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	assert.True(t, resp.IsFirstReveal)
	assert.Equal(t, "fallback", resp.Source)

	// 回退牌由日期和小时确定：(15+6)%22 = 21，10%3 != 0 为正位
	assert.Equal(t, "The World", resp.CardName)
	assert.True(t, resp.Upright)
	assert.NotEmpty(t, resp.Interpretation)

	// 回退牌同样写入权威存储和本地镜像
	stored, err := st.Get(context.Background(), "p1", "2024-06-15")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, model.CardSourceFallback, stored.Source)
	assert.NotNil(t, ca.Get(context.Background(), "p1", "2024-06-15"))
}

func TestDrawFallbackSurvivesStoreFailure(t *testing.T) {
	st := newFakeStore()
	st.putErr = errors.New("insert failed")
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	mock.FailNext = true
	svc := newTestService(st, ca, mock, testTime)

	resp, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	assert.Equal(t, "fallback", resp.Source)
	assert.NotNil(t, ca.Get(context.Background(), "p1", "2024-06-15"))
}

func TestDrawDegradesWhenRemoteStoreDown(t *testing.T) {
	st := newFakeStore()
	st.getErr = errors.New("connection refused")
	st.putErr = errors.New("connection refused")
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	// 权威存储完全不可达时依旧给牌，只是不落库
	resp, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	assert.True(t, resp.IsFirstReveal)
	assert.NotEmpty(t, resp.CardName)
	assert.NotNil(t, ca.Get(context.Background(), "p1", "2024-06-15"))
	assert.Empty(t, st.rows)
}

func TestDrawServesCachedCardWhenStoreDown(t *testing.T) {
	st := newFakeStore()
	st.getErr = errors.New("connection refused")
	ca := newFakeCache()
	ca.Set(context.Background(), &model.DailyCard{
		ProfileID:  "p1",
		MysticDate: "2024-06-15",
		CardName:   "The Moon",
		Source:     model.CardSourceOracle,
	})
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	// 回查失败但本地镜像有今天的牌，直接用镜像，不重新生成
	resp, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	assert.Equal(t, "The Moon", resp.CardName)
	assert.False(t, resp.IsFirstReveal)
	assert.Equal(t, 0, mock.CallCount())
}

func TestDrawSurvivesIDGeneratorFailure(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)
	svc.nextID = func() (int64, error) { return 0, errors.New("node not initialized") }

	resp, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	// ID 发不出来时不落库，本地镜像保证当天稳定
	assert.True(t, resp.IsFirstReveal)
	assert.Empty(t, st.rows)
	assert.NotNil(t, ca.Get(context.Background(), "p1", "2024-06-15"))
}

func TestDrawAdoptsConcurrentWinner(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	// 另一台设备已经抽过卡并落库
	_, won, err := st.PutIfAbsent(context.Background(), &model.DailyCard{
		ID:         999,
		ProfileID:  "p1",
		MysticDate: "2024-06-15",
		CardName:   "Death",
		Upright:    false,
		Source:     model.CardSourceOracle,
	})
	require.NoError(t, err)
	require.True(t, won)

	// 此时服务内部状态仍是未初始化，Draw 回查会直接采纳已有记录
	resp, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	assert.Equal(t, "Death", resp.CardName)
	assert.False(t, resp.Upright)
	assert.False(t, resp.IsFirstReveal)
	assert.Equal(t, 0, mock.CallCount())
}

func TestDrawLosesWriteRaceAdoptsWinner(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	// 回查为空后、写入落库前，另一台设备抢先写入
	st.putHook = func() {
		key := storeKey("p1", "2024-06-15")
		if _, ok := st.rows[key]; !ok {
			st.rows[key] = &model.DailyCard{
				ID:         999,
				ProfileID:  "p1",
				MysticDate: "2024-06-15",
				CardName:   "The Hermit",
				Upright:    true,
				Source:     model.CardSourceOracle,
			}
		}
	}

	resp, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	// 本次生成的结果被丢弃，采纳赢家
	assert.Equal(t, "The Hermit", resp.CardName)
	assert.False(t, resp.IsFirstReveal)

	// 本地镜像同步为赢家的记录
	cached := ca.Get(context.Background(), "p1", "2024-06-15")
	require.NotNil(t, cached)
	assert.Equal(t, "The Hermit", cached.CardName)
}

func TestPutIfAbsentLoserAdoptsWinner(t *testing.T) {
	st := newFakeStore()

	winner := &model.DailyCard{ID: 1, ProfileID: "p1", MysticDate: "2024-06-15", CardName: "The Sun"}
	_, won, err := st.PutIfAbsent(context.Background(), winner)
	require.NoError(t, err)
	assert.True(t, won)

	loser := &model.DailyCard{ID: 2, ProfileID: "p1", MysticDate: "2024-06-15", CardName: "The Tower"}
	got, won, err := st.PutIfAbsent(context.Background(), loser)
	require.NoError(t, err)
	assert.False(t, won)
	assert.Equal(t, "The Sun", got.CardName)
}

func TestDrawRejectedWhileChecking(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	mock.Delay = 200 * time.Millisecond
	svc := newTestService(st, ca, mock, testTime)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := svc.Draw(context.Background(), "p1", nil)
		done <- err
	}()

	<-started
	time.Sleep(50 * time.Millisecond)

	_, err := svc.Draw(context.Background(), "p1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.DrawInProgress)

	require.NoError(t, <-done)
}

func TestDrawRejectsUnknownCharacter(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeCache(), oracle.NewMockClient(), testTime)

	_, err := svc.Draw(context.Background(), "p1", &dto.DrawRequest{CharacterID: "nobody"})
	assert.ErrorIs(t, err, pkgerrors.CharacterUnknown)
}

func TestMarkRevealSeen(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	// 还没抽牌时是无操作，不报错也不落标记
	require.NoError(t, svc.MarkRevealSeen(context.Background(), "p1"))
	assert.False(t, ca.IsSeen(context.Background(), "p1", "2024-06-15"))

	_, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	// 标记后状态可见，重复标记幂等
	require.NoError(t, svc.MarkRevealSeen(context.Background(), "p1"))
	require.NoError(t, svc.MarkRevealSeen(context.Background(), "p1"))

	status, err := svc.GetStatus(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, status.Revealed)
	assert.True(t, status.RevealSeen)
}

func TestForceRefreshDiscardsAndRedraws(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	first, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)
	require.NoError(t, svc.MarkRevealSeen(context.Background(), "p1"))

	refreshed, err := svc.ForceRefresh(context.Background(), "p1", nil)
	require.NoError(t, err)

	assert.True(t, refreshed.IsFirstReveal)
	assert.Equal(t, 2, mock.CallCount())
	_ = first

	// 翻牌标记被清除
	status, err := svc.GetStatus(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, status.Revealed)
	assert.False(t, status.RevealSeen)
}

func TestDayRolloverResetsState(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	_, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	// 跨过 07:00 重置点进入下一个神秘日
	svc.now = func() time.Time { return testTime.Add(24 * time.Hour) }

	resp, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)

	assert.Equal(t, mysticday.Date(testTime.Add(24*time.Hour)), resp.MysticDate)
	assert.True(t, resp.IsFirstReveal)
	assert.Equal(t, 2, mock.CallCount())
}

func TestDayRolloverEvictsStaleStates(t *testing.T) {
	st := newFakeStore()
	ca := newFakeCache()
	mock := oracle.NewMockClient()
	svc := newTestService(st, ca, mock, testTime)

	_, err := svc.Draw(context.Background(), "p1", nil)
	require.NoError(t, err)
	_, err = svc.Draw(context.Background(), "p2", nil)
	require.NoError(t, err)

	svc.now = func() time.Time { return testTime.Add(24 * time.Hour) }

	_, err = svc.Draw(context.Background(), "p3", nil)
	require.NoError(t, err)

	// 翻日后旧档案的状态被清掉，map 不随历史档案增长
	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.NotContains(t, svc.states, "p1")
	assert.NotContains(t, svc.states, "p2")
	assert.Contains(t, svc.states, "p3")
}
