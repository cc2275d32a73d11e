package oracle

import (
	"context"
	"errors"
	"sync"
	"time"

	"MysticTarot/internal/deck"
)

type MockCall struct {
	ProfileID   string
	MysticDate  string
	Question    string
	CharacterID string
}

// MockClient 可配置的 oracle 客户端 mock，实现 Client 接口
type MockClient struct {
	mu    sync.Mutex
	Calls []MockCall

	// FailNext 置为 true 时，下一次调用返回 mock 错误并自动复位
	FailNext bool

	// Delay 模拟上游耗时；超过 ctx deadline 时返回 ctx 的超时错误
	Delay time.Duration

	// Reading 固定返回的解读，为空时返回内置默认值
	Reading *Reading
}

func NewMockClient() *MockClient {
	return &MockClient{
		Calls: make([]MockCall, 0),
	}
}

func (m *MockClient) DrawReading(ctx context.Context, req *Request) (*Reading, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{
		ProfileID:   req.ProfileID,
		MysticDate:  req.MysticDate,
		Question:    req.Question,
		CharacterID: req.CharacterID,
	})
	failNext := m.FailNext
	m.FailNext = false
	delay := m.Delay
	reading := m.Reading
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if failNext {
		return nil, errors.New("mock oracle failure")
	}

	if reading != nil {
		copied := *reading
		return &copied, nil
	}

	return &Reading{
		CardName:       "The Star",
		Upright:        true,
		Interpretation: "mock reading: hope returns like starlight",
		Summary:        deck.MeaningOf("The Star", true),
		CharacterID:    deck.DefaultCharacterID,
	}, nil
}

// CallCount 返回已记录的调用次数
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
