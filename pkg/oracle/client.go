package oracle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"MysticTarot/config"
	"MysticTarot/pkg/logger"
)

// Request 一次解读请求
type Request struct {
	ProfileID   string
	MysticDate  string
	Question    string
	CharacterID string
}

// Reading 上游返回的一次完整解读
type Reading struct {
	CardName       string
	Upright        bool
	Interpretation string
	Summary        string
	ImageRef       string
	CharacterID    string
}

// Client oracle 解读服务客户端接口
type Client interface {
	// DrawReading 抽一张卡并生成解读。
	// 调用方通过 ctx 控制超时；任何错误（含超时）都由调用方降级处理。
	DrawReading(ctx context.Context, req *Request) (*Reading, error)
}

var (
	oracleClient Client
	oracleOnce   sync.Once
	oracleErr    error
)

// Init 初始化 oracle 客户端
func Init() error {
	oracleOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.OracleProvider {
		case "http":
			oracleClient, oracleErr = NewHTTPClient()
		case "mock":
			oracleClient = NewMockClient()
		default:
			oracleErr = fmt.Errorf("unsupported oracle provider: %s", cfg.OracleProvider)
		}

		if oracleErr != nil {
			logger.Logger.Error("Failed to initialize oracle client", zap.Error(oracleErr))
			return
		}

		logger.Logger.Info("Oracle client initialized successfully",
			zap.String("provider", cfg.OracleProvider),
		)
	})

	return oracleErr
}

func GetClient() Client {
	if oracleClient == nil {
		panic("oracle client not initialized, call oracle.Init() first")
	}
	return oracleClient
}
