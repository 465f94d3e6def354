package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listora/realty-api/pkg/log"
)

func multipartUpload(t *testing.T, field, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	dir := t.TempDir()
	h := NewUploadHandler(dir, log.New("test"))

	body, ctype := multipartUpload(t, "file", "House Photo.JPG", "image/jpeg", []byte("fake-jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/image", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Image(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeJSON(t, rec)
	name, _ := resp["name"].(string)
	url, _ := resp["url"].(string)
	assert.Equal(t, "/uploads/images/"+name, url)
	// Stored name is a UUID plus the lowercased original extension.
	assert.True(t, strings.HasSuffix(name, ".jpg"), "got %q", name)
	assert.NotContains(t, name, "House")

	stored, err := os.ReadFile(filepath.Join(dir, "images", name))
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg-bytes", string(stored))
}

func TestUploadRejectsNonImage(t *testing.T) {
	h := NewUploadHandler(t.TempDir(), log.New("test"))

	body, ctype := multipartUpload(t, "file", "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/image", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Image(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresFileField(t *testing.T) {
	h := NewUploadHandler(t.TempDir(), log.New("test"))

	body, ctype := multipartUpload(t, "attachment", "a.png", "image/png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/image", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Image(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
