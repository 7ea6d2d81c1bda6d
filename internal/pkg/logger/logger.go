// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Logger 是进程级的结构化日志实例，Init 之前使用时输出到 stdout、无服务名。
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init 初始化全局 Logger，并同步替换 zerolog 的包级默认实例。
func Init(serviceName string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
	log.Logger = Logger
}

// Ctx 返回绑定到 ctx 的 logger。若 ctx 携带有效的 trace 上下文，
// 日志会附加 trace_id 字段，方便从日志跳转到对应的链路。
func Ctx(ctx context.Context) *zerolog.Logger {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		l := Logger.With().Str("trace_id", sc.TraceID().String()).Logger()
		return &l
	}
	return &Logger
}
