package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/startdash-dev/startdash/internal/errors"
)

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	data, err := DecodeObject(strings.NewReader(body), "invalid payload")
	require.NoError(t, err)
	return data
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	statusErr, ok := err.(*apperrors.ErrorWithStatusCode)
	require.True(t, ok, "expected *ErrorWithStatusCode, got %T", err)
	assert.Equal(t, status, statusErr.StatusCode)
}

func TestDecodeObject(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		_, err := DecodeObject(strings.NewReader("{not json"), "invalid card payload")
		assertStatus(t, err, 400)
		assert.Contains(t, err.Error(), "invalid card payload")
	})

	t.Run("non-object", func(t *testing.T) {
		_, err := DecodeObject(strings.NewReader(`[1,2]`), "invalid payload")
		assertStatus(t, err, 400)
	})
}

func TestRequiredString(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		value, err := RequiredString(decode(t, `{"title":"  Docs  "}`), "title", 200)
		require.NoError(t, err)
		assert.Equal(t, "Docs", value)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := RequiredString(decode(t, `{}`), "title", 200)
		assertStatus(t, err, 400)
		assert.Contains(t, err.Error(), "must be a string")
	})

	t.Run("whitespace only", func(t *testing.T) {
		_, err := RequiredString(decode(t, `{"title":"   "}`), "title", 200)
		assertStatus(t, err, 400)
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("too long", func(t *testing.T) {
		_, err := RequiredString(map[string]any{"title": strings.Repeat("a", 201)}, "title", 200)
		assertStatus(t, err, 400)
		assert.Contains(t, err.Error(), "max length 200")
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := RequiredString(decode(t, `{"title":42}`), "title", 200)
		assertStatus(t, err, 400)
	})
}

func TestOptionalString(t *testing.T) {
	t.Run("absent returns nil", func(t *testing.T) {
		value, err := OptionalString(decode(t, `{}`), "description", 100)
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("null returns nil", func(t *testing.T) {
		value, err := OptionalString(decode(t, `{"description":null}`), "description", 100)
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("empty string is allowed", func(t *testing.T) {
		value, err := OptionalString(decode(t, `{"description":""}`), "description", 100)
		require.NoError(t, err)
		require.NotNil(t, value)
		assert.Equal(t, "", *value)
	})
}

func TestRequiredInt(t *testing.T) {
	t.Run("accepts integer", func(t *testing.T) {
		value, err := RequiredInt(decode(t, `{"column_id":3}`), "column_id", 1, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(3), value)
	})

	t.Run("rejects float", func(t *testing.T) {
		_, err := RequiredInt(decode(t, `{"column_id":3.5}`), "column_id", 1, 100)
		assertStatus(t, err, 400)
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		_, err := RequiredInt(decode(t, `{"n":1}`), "n", 1, 10)
		assert.NoError(t, err)
		_, err = RequiredInt(decode(t, `{"n":10}`), "n", 1, 10)
		assert.NoError(t, err)
		_, err = RequiredInt(decode(t, `{"n":0}`), "n", 1, 10)
		assertStatus(t, err, 400)
		_, err = RequiredInt(decode(t, `{"n":11}`), "n", 1, 10)
		assertStatus(t, err, 400)
	})

	t.Run("rejects string", func(t *testing.T) {
		_, err := RequiredInt(decode(t, `{"n":"5"}`), "n", 1, 10)
		assertStatus(t, err, 400)
	})
}

func TestOptionalFloat(t *testing.T) {
	t.Run("absent returns nil", func(t *testing.T) {
		value, err := OptionalFloat(decode(t, `{}`), "opacity", 0, 1)
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("integer literal is a valid float", func(t *testing.T) {
		value, err := OptionalFloat(decode(t, `{"opacity":1}`), "opacity", 0, 1)
		require.NoError(t, err)
		require.NotNil(t, value)
		assert.Equal(t, 1.0, *value)
	})

	t.Run("out of bounds", func(t *testing.T) {
		_, err := OptionalFloat(decode(t, `{"opacity":1.1}`), "opacity", 0, 1)
		assertStatus(t, err, 400)
	})
}

func TestOptionalURL(t *testing.T) {
	valid := []string{"http://example.com", "https://example.com/path?q=1", ""}
	for _, link := range valid {
		value, err := OptionalURL(map[string]any{"link": link}, "link", 2048)
		require.NoError(t, err, "url %q", link)
		require.NotNil(t, value)
		assert.Equal(t, link, *value)
	}

	invalid := []string{"ftp://example.com", "javascript:alert(1)", "example.com", "https://", "not a url"}
	for _, link := range invalid {
		_, err := OptionalURL(map[string]any{"link": link}, "link", 2048)
		assertStatus(t, err, 400)
	}

	t.Run("absent returns nil", func(t *testing.T) {
		value, err := OptionalURL(map[string]any{}, "link", 2048)
		require.NoError(t, err)
		assert.Nil(t, value)
	})
}

func TestOptionalHexColor(t *testing.T) {
	t.Run("normalizes to lowercase with hash", func(t *testing.T) {
		value, err := OptionalHexColor(map[string]any{"c": "#AABBCC"}, "c")
		require.NoError(t, err)
		assert.Equal(t, "#aabbcc", *value)
	})

	t.Run("leading hash is optional", func(t *testing.T) {
		value, err := OptionalHexColor(map[string]any{"c": "AABBCC"}, "c")
		require.NoError(t, err)
		assert.Equal(t, "#aabbcc", *value)
	})

	for _, bad := range []string{"red", "#ABC", "#GGGGGG", "#aabbccdd", ""} {
		_, err := OptionalHexColor(map[string]any{"c": bad}, "c")
		assertStatus(t, err, 400)
	}
}

func TestIDList(t *testing.T) {
	t.Run("parses ids", func(t *testing.T) {
		ids, err := IDList(decode(t, `{"order":[3,1,2]}`), "order")
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 1, 2}, ids)
	})

	t.Run("rejects non-integers", func(t *testing.T) {
		_, err := IDList(decode(t, `{"order":[1,"two"]}`), "order")
		assertStatus(t, err, 400)
	})

	t.Run("rejects non-list", func(t *testing.T) {
		_, err := IDList(decode(t, `{"order":"123"}`), "order")
		assertStatus(t, err, 400)
	})
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "hello", PlainText("<b>hello</b>"))
	assert.Equal(t, "plain text", PlainText("plain text"))
}
