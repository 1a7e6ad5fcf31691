package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups non-nil errors under "errors". Returns an empty Attr if all are nil.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". Nil yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// AccountID records the account identifier under "account_id".
func AccountID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("account_id", id)
}

// BudgetID records the budget identifier under "budget_id".
func BudgetID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("budget_id", id)
}

// RequestID records the request identifier under "request_id".
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Email records a masked address under "email": only the first character of the local
// part and the domain survive, e.g. "a***@example.com".
func Email(address string) slog.Attr {
	return slog.String("email", MaskEmail(address))
}

// MaskEmail hides most of the local part of an address.
func MaskEmail(address string) string {
	at := strings.LastIndexByte(address, '@')
	if at <= 0 {
		if address == "" {
			return ""
		}
		return "***"
	}
	return address[:1] + "***" + address[at:]
}

// Purpose records a token purpose under "purpose".
func Purpose(p string) slog.Attr {
	return slog.String("purpose", p)
}

// Status records a state or alert status under "status".
func Status(s string) slog.Attr {
	return slog.String("status", s)
}

// Duration records a duration under "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Handler records the handler name under "handler".
func Handler(name string) slog.Attr {
	return slog.String("handler", name)
}
