package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"MysticTarot/internal/model/dto"
	pkgerrors "MysticTarot/pkg/errors"
	"MysticTarot/pkg/logger"
	"MysticTarot/pkg/token"
	"MysticTarot/storage/redis"
)

const deviceProfilePrefix = "profile:device"

// 设备标识由客户端生成，限制字符集避免脏数据进 redis key
var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-\.]{8,128}$`)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{}
	})
	return authService
}

type AuthService struct{}

// ExchangeDevice 匿名设备标识换取档案令牌。
// 同一设备重复换取返回同一个档案 ID，首次换取时原子分配。
func (s *AuthService) ExchangeDevice(ctx context.Context, req dto.DeviceExchangeRequest) (*dto.TokenResponse, error) {
	if !deviceIDPattern.MatchString(req.DeviceID) {
		return nil, pkgerrors.DeviceIDInvalid
	}

	profileID, err := s.resolveProfileID(ctx, req.DeviceID)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	return &dto.TokenResponse{
		ProfileID:    profileID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// RefreshToken 用 refresh token 换取新的令牌对
func (s *AuthService) RefreshToken(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error) {
	profileID, err := token.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		logger.Logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, pkgerrors.Unauthorized
	}

	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	return &dto.TokenResponse{
		ProfileID:    profileID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// resolveProfileID 查找或分配设备对应的档案 ID。
// SETNX 保证并发换取时只有一个分配生效。
func (s *AuthService) resolveProfileID(ctx context.Context, deviceID string) (string, error) {
	key := redis.Key(deviceProfilePrefix, deviceID)
	cli := redis.Client()

	existing, err := cli.Get(ctx, key).Result()
	if err == nil {
		return existing, nil
	}
	if err != goredis.Nil {
		return "", fmt.Errorf("failed to look up device profile: %w", err)
	}

	candidate := uuid.NewString()
	ok, err := cli.SetNX(ctx, key, candidate, 0).Result()
	if err != nil {
		return "", fmt.Errorf("failed to allocate device profile: %w", err)
	}
	if ok {
		logger.Logger.Info("Allocated new profile for device",
			zap.String("profile_id", candidate),
		)
		return candidate, nil
	}

	// 并发换取输掉了分配，读赢家
	winner, err := cli.Get(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read winning device profile: %w", err)
	}
	return winner, nil
}
