package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MysticTarot/internal/deck"
	"MysticTarot/pkg/response"
)

// ListCharacters 返回全部占卜师角色
// GET /v1/characters
func ListCharacters(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, deck.Characters)
}
