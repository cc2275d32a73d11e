package metrics

import (
	"context"
)

// 包级别的便捷封装，指标未初始化时静默跳过（测试环境不会 Init）

// RecordDraw 记录每日卡牌解析来源
func RecordDraw(source string, firstReveal bool) {
	ctx := context.Background()
	m := GetMetrics()
	if m != nil {
		m.RecordDraw(ctx, source, firstReveal)
	}
}

// RecordOracleCall 记录 oracle 调用
func RecordOracleCall(provider, status string, duration float64) {
	ctx := context.Background()
	m := GetMetrics()
	if m != nil {
		m.RecordOracleCall(ctx, provider, status, duration)
	}
}

// RecordCacheHit 记录本地缓存命中
func RecordCacheHit(namespace string) {
	ctx := context.Background()
	m := GetMetrics()
	if m != nil {
		m.RecordCacheHit(ctx, namespace)
	}
}

// RecordCacheMiss 记录本地缓存未命中
func RecordCacheMiss(namespace string) {
	ctx := context.Background()
	m := GetMetrics()
	if m != nil {
		m.RecordCacheMiss(ctx, namespace)
	}
}

// RecordCachePruned 记录清理的过期条目数
func RecordCachePruned(count int64) {
	ctx := context.Background()
	m := GetMetrics()
	if m != nil {
		m.RecordCachePruned(ctx, count)
	}
}
