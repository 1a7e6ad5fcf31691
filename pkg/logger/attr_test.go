package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/expensekit/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestIDAttrs(t *testing.T) {
	assert.Equal(t, "account_id", logger.AccountID("a1").Key)
	assert.Equal(t, "budget_id", logger.BudgetID("b1").Key)
	assert.Equal(t, "request_id", logger.RequestID("r1").Key)
	assert.True(t, logger.AccountID(nil).Equal(slog.Attr{}))
	assert.True(t, logger.BudgetID(nil).Equal(slog.Attr{}))
}

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"alice@example.com": "a***@example.com",
		"b@x.io":            "b***@x.io",
		"@x.io":             "***",
		"no-at-sign":        "***",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.MaskEmail(in), in)
	}

	attr := logger.Email("alice@example.com")
	assert.Equal(t, "email", attr.Key)
	assert.Equal(t, "a***@example.com", attr.Value.String())
}
