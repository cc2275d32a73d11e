package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MysticTarot/internal/model/dto"
	"MysticTarot/internal/service"
	"MysticTarot/pkg/response"
)

// ExchangeDevice 匿名设备标识换取档案令牌
// POST /v1/auth/device/exchange
func ExchangeDevice(ctx context.Context, c *app.RequestContext) {
	var req dto.DeviceExchangeRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Auth().ExchangeDevice(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// RefreshToken 刷新访问令牌
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Auth().RefreshToken(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
