package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 每日卡牌相关指标
	DrawsTotal         metric.Int64Counter
	FallbackDrawsTotal metric.Int64Counter
	OracleCallDuration metric.Float64Histogram
	OracleTimeoutTotal metric.Int64Counter

	// 本地缓存相关指标
	CacheHitsTotal   metric.Int64Counter
	CacheMissesTotal metric.Int64Counter
	CachePrunedTotal metric.Int64Counter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("mystictarot")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.DrawsTotal, err = meter.Int64Counter(
		"daily_card_draws_total",
		metric.WithDescription("Total number of daily card resolutions"),
		metric.WithUnit("{draw}"),
	)
	if err != nil {
		return err
	}

	metrics.FallbackDrawsTotal, err = meter.Int64Counter(
		"daily_card_fallback_draws_total",
		metric.WithDescription("Total number of draws served from the deterministic fallback deck"),
		metric.WithUnit("{draw}"),
	)
	if err != nil {
		return err
	}

	metrics.OracleCallDuration, err = meter.Float64Histogram(
		"oracle_call_duration_seconds",
		metric.WithDescription("Time spent calling the oracle reading API in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.OracleTimeoutTotal, err = meter.Int64Counter(
		"oracle_timeout_total",
		metric.WithDescription("Total number of oracle calls that hit the client timeout"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	metrics.CacheHitsTotal, err = meter.Int64Counter(
		"daily_card_cache_hits_total",
		metric.WithDescription("Total number of local cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	metrics.CacheMissesTotal, err = meter.Int64Counter(
		"daily_card_cache_misses_total",
		metric.WithDescription("Total number of local cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}

	metrics.CachePrunedTotal, err = meter.Int64Counter(
		"daily_card_cache_pruned_total",
		metric.WithDescription("Total number of stale local cache entries pruned"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordDraw 记录一次每日卡牌解析
// source: remote / local / generated / fallback
func (m *OTelMetrics) RecordDraw(ctx context.Context, source string, firstReveal bool) {
	attrs := []attribute.KeyValue{
		attribute.String("source", source),
		attribute.Bool("first_reveal", firstReveal),
	}
	m.DrawsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	if source == "fallback" {
		m.FallbackDrawsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("source", source),
		))
	}
}

// RecordOracleCall 记录一次 oracle 调用耗时
func (m *OTelMetrics) RecordOracleCall(ctx context.Context, provider, status string, duration float64) {
	m.OracleCallDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))

	if status == "timeout" {
		m.OracleTimeoutTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
		))
	}
}

// RecordCacheHit 记录本地缓存命中
func (m *OTelMetrics) RecordCacheHit(ctx context.Context, namespace string) {
	m.CacheHitsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("namespace", namespace),
	))
}

// RecordCacheMiss 记录本地缓存未命中
func (m *OTelMetrics) RecordCacheMiss(ctx context.Context, namespace string) {
	m.CacheMissesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("namespace", namespace),
	))
}

// RecordCachePruned 记录被清理的过期缓存条目数
func (m *OTelMetrics) RecordCachePruned(ctx context.Context, count int64) {
	if count <= 0 {
		return
	}
	m.CachePrunedTotal.Add(ctx, count)
}
