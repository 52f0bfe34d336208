package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/startdash-dev/startdash/internal/errors"
)

// multipartBody builds a multipart form with a single file part carrying an
// explicit Content-Type, the way browsers submit uploads.
func multipartBody(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func uploadRequest(t *testing.T, h *Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/upload-bg", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rr, req)
	return rr
}

func TestUploadBackground(t *testing.T) {
	h := New(&MockBoardStore{}, &MockSettingsStore{}, &MockBackgroundManager{}, &MockPinger{}, testConfig())

	t.Run("accepted", func(t *testing.T) {
		h.backgrounds = &MockBackgroundManager{
			MockUpload: func(filename, claimedMime string, data io.ReadSeeker) (string, error) {
				assert.Equal(t, "wallpaper.png", filename)
				assert.Equal(t, "image/png", claimedMime)
				return "/static/uploads/wallpaper_0123456789abcdef.png", nil
			},
		}

		body, contentType := multipartBody(t, "file", "wallpaper.png", "image/png", []byte("png bytes"))
		rr := uploadRequest(t, h, body, contentType)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"url":"/static/uploads/wallpaper_0123456789abcdef.png"}`, rr.Body.String())
	})

	t.Run("rejected content", func(t *testing.T) {
		h.backgrounds = &MockBackgroundManager{
			MockUpload: func(filename, claimedMime string, data io.ReadSeeker) (string, error) {
				return "", apperrors.UploadRejected("file content is not a supported image")
			},
		}

		body, contentType := multipartBody(t, "file", "wallpaper.png", "image/png", []byte("junk"))
		rr := uploadRequest(t, h, body, contentType)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "file content is not a supported image", errorMessage(t, rr))
	})

	t.Run("wrong form field", func(t *testing.T) {
		body, contentType := multipartBody(t, "attachment", "wallpaper.png", "image/png", []byte("png bytes"))
		rr := uploadRequest(t, h, body, contentType)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "no file uploaded", errorMessage(t, rr))
	})

	t.Run("not multipart", func(t *testing.T) {
		rr := serve(t, h, http.MethodPost, "/api/upload-bg", `{"file": "x"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "request too large or not multipart", errorMessage(t, rr))
	})

	t.Run("body over the size limit", func(t *testing.T) {
		cfg := testConfig()
		cfg.Upload.MaxUploadBytes = 64
		small := New(&MockBoardStore{}, &MockSettingsStore{}, &MockBackgroundManager{}, &MockPinger{}, cfg)

		body, contentType := multipartBody(t, "file", "big.png", "image/png", bytes.Repeat([]byte("a"), 1024))
		rr := uploadRequest(t, small, body, contentType)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "request too large or not multipart", errorMessage(t, rr))
	})
}
