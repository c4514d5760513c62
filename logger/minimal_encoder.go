package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
	colorDim   = "\x1b[2m"
	colorKey   = "\x1b[38;5;108m" // Muted cyan-green
	colorWarn  = "\x1b[38;5;214m" // Soft yellow
	colorError = "\x1b[38;5;167m" // Warm red
	colorName  = "\x1b[38;5;208m" // Warm orange
)

var pool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder
// Format: "13:04:35  WARN  generator  Type rejected  type=Foo error=..."
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	color           bool
}

func newMinimalEncoder(color bool) *minimalEncoder {
	// Create a base JSON encoder for field serialization (internal use only)
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return &minimalEncoder{
		Encoder: baseEncoder,
		color:   color,
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		color:   enc.color,
	}
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color || color == "" {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := pool.Get()

	final.AppendString(enc.paint(colorDim, ent.Time.Format("15:04:05")))

	// Level: only show for WARN and above, and DEBUG
	if label := enc.levelLabel(ent.Level); label != "" {
		final.AppendString("  ")
		final.AppendString(label)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(colorName, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	if len(fields) > 0 {
		final.AppendString("  ")
		final.AppendString(enc.encodeFields(fields))
	}

	final.AppendString("\n")
	return final, nil
}

// levelLabel returns bold + colored label for non-info levels
func (enc *minimalEncoder) levelLabel(level zapcore.Level) string {
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return enc.paint(colorDim, "DEBUG")
	case zapcore.WarnLevel:
		return enc.paint(colorBold+colorWarn, "WARN")
	default:
		return enc.paint(colorBold+colorError, level.CapitalString())
	}
}

// encodeFields renders every field as key=value, in the order logged.
// Companion keys such as errorVerbose are left to the JSON output.
func (enc *minimalEncoder) encodeFields(fields []zapcore.Field) string {
	m := zapcore.NewMapObjectEncoder()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		f.AddTo(m)
		v, ok := m.Fields[f.Key]
		if !ok {
			continue
		}
		parts = append(parts, enc.paint(colorKey, f.Key)+"="+formatValue(v))
	}
	return strings.Join(parts, " ")
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case string:
		if strings.ContainsAny(v, " \t") {
			return fmt.Sprintf("%q", v)
		}
		return v
	case []interface{}:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprint(v)
	}
}
