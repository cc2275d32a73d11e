package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"MysticTarot/config"
	"MysticTarot/internal/deck"
	"MysticTarot/pkg/metrics"
)

// HTTPClient 调用 Mystic Tarot 上游 API 的客户端。
// 上游是一个普通的 REST 服务（POST /tarot/reading），没有官方 SDK。
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient() (*HTTPClient, error) {
	cfg := config.Cfg

	if cfg.OracleBaseURL == "" {
		return nil, errors.New("oracle base URL is empty")
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.OracleBaseURL, "/"),
		client: &http.Client{
			// 客户端侧硬超时，与 ctx 的 deadline 双保险
			Timeout: cfg.OracleTimeout(),
		},
	}, nil
}

// readingRequest 上游 /tarot/reading 的请求体
type readingRequest struct {
	Question    string   `json:"question"`
	Cards       []string `json:"cards"`
	CharacterID string   `json:"character_id"`
	DeviceID    string   `json:"device_id,omitempty"`
}

// readingResponse 上游 /tarot/reading 的响应体
type readingResponse struct {
	Success          bool     `json:"success"`
	Reading          string   `json:"reading"`
	CharacterID      string   `json:"character_id"`
	CardsInterpreted []string `json:"cards_interpreted"`
	ImageURL         string   `json:"image_url"`
	Error            string   `json:"error"`
}

// DrawReading 抽一张卡并请求上游生成解读。
// 卡牌在服务端随机抽取，上游只负责按角色口吻解读。
func (h *HTTPClient) DrawReading(ctx context.Context, req *Request) (*Reading, error) {
	cardName := deck.MajorArcana[rand.Intn(len(deck.MajorArcana))]
	upright := rand.Intn(2) == 0

	characterID := req.CharacterID
	if characterID == "" {
		characterID = deck.DefaultCharacterID
	}

	body := readingRequest{
		Question:    req.Question,
		Cards:       []string{cardName},
		CharacterID: characterID,
		DeviceID:    req.ProfileID,
	}

	start := time.Now()
	resp, err := h.post(ctx, "/tarot/reading", body)
	duration := time.Since(start).Seconds()

	if err != nil {
		metrics.RecordOracleCall("http", callStatus(err), duration)
		return nil, err
	}
	metrics.RecordOracleCall("http", "success", duration)

	if !resp.Success {
		return nil, fmt.Errorf("oracle reading rejected: %s", resp.Error)
	}

	return &Reading{
		CardName:       cardName,
		Upright:        upright,
		Interpretation: resp.Reading,
		Summary:        deck.MeaningOf(cardName, upright),
		ImageRef:       resp.ImageURL,
		CharacterID:    resp.CharacterID,
	}, nil
}

func (h *HTTPClient) post(ctx context.Context, path string, payload readingRequest) (*readingResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oracle request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build oracle request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("oracle request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		// 读取部分 body 方便排查，不影响降级
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("oracle returned status %d: %s", httpResp.StatusCode, string(snippet))
	}

	var resp readingResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode oracle response: %w", err)
	}

	return &resp, nil
}

// callStatus 区分超时和一般失败，用于指标归类
func callStatus(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}

	return "error"
}
