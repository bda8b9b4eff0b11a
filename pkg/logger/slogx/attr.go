// Package slogx provides typed attribute constructors shared by the storefront's log calls.
package slogx

import (
	"fmt"
	"log/slog"
	"math/big"
	"time"
)

// ErrorKey is the attribute key of errors added by [Error].
const ErrorKey = "error"

// Error returns an attribute for err, or an empty attribute that slog drops when err is nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(ErrorKey, err)
}

// Stringer returns a string attribute from value.String(). Nil values render as "<nil>".
func Stringer(key string, value fmt.Stringer) slog.Attr {
	if value == nil {
		return slog.String(key, "<nil>")
	}
	return slog.String(key, value.String())
}

// BigInt returns an attribute for a wei amount or token id, kept as *big.Int
// so JSON output can render it as a decimal string.
func BigInt(key string, value *big.Int) slog.Attr {
	if value == nil {
		return slog.String(key, "<nil>")
	}
	return slog.Any(key, value)
}

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }
func String(key, value string) slog.Attr { return slog.String(key, value) }
func Int(key string, value int) slog.Attr { return slog.Int(key, value) }
func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }
func Uint64(key string, value uint64) slog.Attr { return slog.Uint64(key, value) }
func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }
