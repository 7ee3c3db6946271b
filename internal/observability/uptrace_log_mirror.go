package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"
)

const uptraceLogInstrumentation = "sports-sync/internal/platform/logging"

// Request logs below warn are already carried by the request spans.
const requestLogMessage = "http request"

var otelSeverities = map[zapcore.Level]otellog.Severity{
	zapcore.InfoLevel:   otellog.SeverityInfo,
	zapcore.WarnLevel:   otellog.SeverityWarn,
	zapcore.ErrorLevel:  otellog.SeverityError,
	zapcore.DPanicLevel: otellog.SeverityFatal,
	zapcore.PanicLevel:  otellog.SeverityFatal,
	zapcore.FatalLevel:  otellog.SeverityFatal,
}

// newUptraceLogMirror ships sync run records and every warning or error to
// the OTel log pipeline, tagged with the sync run id when ctx carries one.
func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	emitter := otelglobal.Logger(uptraceLogInstrumentation, otellog.WithInstrumentationVersion(serviceVersion))

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if !mirrored(level, msg) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		severity := otelSeverities[level]
		if !emitter.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}
		emitter.Emit(ctx, syncLogRecord(ctx, time.Now(), level, msg, args))
	}
}

func mirrored(level logging.Level, msg string) bool {
	if level < zapcore.InfoLevel {
		return false
	}
	return level >= zapcore.WarnLevel || msg != requestLogMessage
}

func syncLogRecord(ctx context.Context, now time.Time, level logging.Level, msg string, args []any) otellog.Record {
	var record otellog.Record
	record.SetTimestamp(now)
	record.SetObservedTimestamp(now)
	record.SetSeverity(otelSeverities[level])
	record.SetSeverityText(level.CapitalString())
	record.SetEventName(msg)
	record.SetBody(otellog.StringValue(msg))
	record.AddAttributes(logAttributes(args)...)
	if runID := logging.RunID(ctx); runID != "" && !hasKey(args, "run_id") {
		record.AddAttributes(otellog.String("run_id", runID))
	}
	return record
}

// logAttributes converts key/value pairs; pairs with a non-string key and a
// dangling key are dropped.
func logAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			continue
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(args[i+1])})
	}
	return attrs
}

func logValue(value any) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int64:
		return otellog.Int64Value(v)
	case float64:
		return otellog.Float64Value(v)
	case time.Duration:
		return otellog.StringValue(v.String())
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	case []string:
		items := make([]otellog.Value, len(v))
		for i, item := range v {
			items[i] = otellog.StringValue(item)
		}
		return otellog.SliceValue(items...)
	}
	// Run details and other composites travel as JSON text.
	if text, err := sonic.MarshalString(value); err == nil {
		return otellog.StringValue(text)
	}
	return otellog.StringValue(fmt.Sprint(value))
}

func hasKey(args []any, key string) bool {
	for i := 0; i < len(args); i += 2 {
		if k, ok := args[i].(string); ok && k == key {
			return true
		}
	}
	return false
}
