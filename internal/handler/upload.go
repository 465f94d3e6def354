package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/listora/realty-api/pkg/log"
)

// maxUploadBytes caps accepted image uploads at 5 MiB.
const maxUploadBytes = 5 << 20

// UploadHandler stores multipart image uploads on disk. Files are renamed
// to a UUID so client-supplied names never touch the filesystem; the
// public URL mirrors the static route the server mounts for the upload
// directory.
type UploadHandler struct {
	Dir string // root upload directory, images go into Dir/images
	Log log.Logger
}

func NewUploadHandler(dir string, logger log.Logger) *UploadHandler {
	return &UploadHandler{Dir: dir, Log: logger}
}

type uploadResp struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Image handles POST /api/uploads/image with multipart form field "file".
func (h *UploadHandler) Image(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file field required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file too large"})
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only image files are allowed"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()

	dir := filepath.Join(h.Dir, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.Log.Error().Err(err).Str("dir", dir).Msg("create upload dir failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		h.Log.Error().Err(err).Msg("create upload file failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, maxUploadBytes)); err != nil {
		h.Log.Error().Err(err).Msg("write upload failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}

	return c.JSON(http.StatusCreated, uploadResp{
		URL:  "/uploads/images/" + name,
		Name: name,
	})
}
