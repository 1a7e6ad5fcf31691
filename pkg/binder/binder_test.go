package binder_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/expensekit/pkg/binder"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	newRequest := func(method, body, contentType string) *http.Request {
		req := httptest.NewRequest(method, "/", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return req
	}

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		req := newRequest(http.MethodPost, `{"email":"a@x.com","password":" pw 123 "}`, "application/json; charset=utf-8")

		var got payload
		require.NoError(t, binder.JSON()(req, &got))
		assert.Equal(t, "a@x.com", got.Email)
		assert.Equal(t, " pw 123 ", got.Password, "values are passed through untouched")
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest(http.MethodPost, `{}`, ""), &got)
		assert.ErrorIs(t, err, binder.ErrMissingContentType)
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest(http.MethodPost, `{}`, "text/plain"), &got)
		assert.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest(http.MethodPost, `{"email":"a@x.com","admin":true}`, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest(http.MethodPost, `{"email":`, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
		assert.True(t, binder.IsBindError(err))
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest(http.MethodPost, `{"email":"a@x.com"}{"email":"b@x.com"}`, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		big := `{"email":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`
		var got payload
		err := binder.JSON()(newRequest(http.MethodPost, big, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrRequestTooLarge)
	})

	t.Run("empty post body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Content-Type", "application/json")
		var got payload
		err := binder.JSON()(req, &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("bodiless get is skipped", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		var got payload
		err := binder.JSON()(req, &got)
		assert.ErrorIs(t, err, binder.ErrBinderNotApplicable)
		assert.False(t, binder.IsBindError(err))
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	type listRequest struct {
		Month  int      `query:"month"`
		Year   int      `query:"year"`
		Tags   []string `query:"tags"`
		Active *bool    `query:"active"`
		Skip   string   `query:"-"`
		Plain  string
	}

	t.Run("binds tagged fields", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/?month=3&year=2025&tags=food,rent&tags=fun&active=yes&Skip=x&Plain=y", nil)

		var got listRequest
		require.NoError(t, binder.Query()(req, &got))
		assert.Equal(t, 3, got.Month)
		assert.Equal(t, 2025, got.Year)
		assert.Equal(t, []string{"food", "rent", "fun"}, got.Tags)
		require.NotNil(t, got.Active)
		assert.True(t, *got.Active)
		assert.Empty(t, got.Skip)
		assert.Empty(t, got.Plain)
	})

	t.Run("missing values keep zero", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		var got listRequest
		require.NoError(t, binder.Query()(req, &got))
		assert.Zero(t, got.Month)
		assert.Nil(t, got.Active)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/?month=march", nil)

		var got listRequest
		err := binder.Query()(req, &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseQuery)
		assert.Contains(t, err.Error(), "month")
	})

	t.Run("non-struct target", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/?month=3", nil)

		var got int
		assert.ErrorIs(t, binder.Query()(req, &got), binder.ErrFailedToParseQuery)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	type itemRequest struct {
		ID   uuid.UUID `path:"id"`
		Page uint      `path:"page"`
	}

	params := func(values map[string]string) func(*http.Request, string) string {
		return func(_ *http.Request, name string) string { return values[name] }
	}

	t.Run("binds uuid", func(t *testing.T) {
		t.Parallel()
		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		var got itemRequest
		require.NoError(t, binder.Path(params(map[string]string{"id": id.String(), "page": "2"}))(req, &got))
		assert.Equal(t, id, got.ID)
		assert.Equal(t, uint(2), got.Page)
	})

	t.Run("invalid uuid", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		var got itemRequest
		err := binder.Path(params(map[string]string{"id": "not-a-uuid"}))(req, &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParsePath)
	})

	t.Run("nil extractor", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		var got itemRequest
		assert.ErrorIs(t, binder.Path(nil)(req, &got), binder.ErrFailedToParsePath)
	})
}

func TestReason(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")

	var got struct{}
	err := binder.JSON()(req, &got)
	require.Error(t, err)
	assert.Equal(t, "Unsupported media type: expected application/json", binder.Reason(err))
	assert.Empty(t, binder.Reason(nil))
}
