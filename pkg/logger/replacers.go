package logger

import (
	"fmt"
	"log/slog"
	"math/big"
)

type attrReplacer = func(groups []string, attr slog.Attr) slog.Attr

func chainReplacers(replacers ...attrReplacer) attrReplacer {
	return func(groups []string, attr slog.Attr) slog.Attr {
		for _, replace := range replacers {
			attr = replace(groups, attr)
		}
		return attr
	}
}

// replaceLevel names the custom levels, e.g. PANIC or FATAL+2.
func replaceLevel(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 || attr.Key != slog.LevelKey {
		return attr
	}
	lvl, ok := attr.Value.Any().(slog.Level)
	if !ok || lvl < LevelPanic {
		return attr
	}
	name, base := "PANIC", LevelPanic
	if lvl >= LevelFatal {
		name, base = "FATAL", LevelFatal
	}
	if lvl != base {
		name = fmt.Sprintf("%s%+d", name, lvl-base)
	}
	return slog.String(attr.Key, name)
}

// replaceDuration renders durations as milliseconds.
func replaceDuration(_ []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindDuration {
		return attr
	}
	return slog.Int64(attr.Key, attr.Value.Duration().Milliseconds())
}

// replaceBigInt renders wei amounts and token ids as decimal strings,
// since JSON numbers lose precision above 2^53 in most consumers.
func replaceBigInt(_ []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}
	if v, ok := attr.Value.Any().(*big.Int); ok && v != nil {
		return slog.String(attr.Key, v.String())
	}
	return attr
}
