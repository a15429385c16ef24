package marketdesk

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"github.com/sunshineplan/imgconv"
	"go.uber.org/zap"

	"github.com/eringen/marketdesk/banner"
)

const (
	maxLogoWidth   = 512
	maxLogoSize    = 5 << 20 // 5MB
	maxBannerImage = 10 << 20
)

var logoTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/svg+xml": true,
	"image/webp":    true,
}

// processLogo normalizes an uploaded logo. SVG is kept verbatim; raster
// images are decoded, shrunk to maxLogoWidth and re-encoded as PNG.
func processLogo(data []byte, contentType string) (out []byte, ext, outType string, err error) {
	if contentType == "image/svg+xml" {
		return data, "svg", contentType, nil
	}
	img, err := imgconv.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", fmt.Errorf("decode logo: %w", err)
	}
	if img.Bounds().Dx() > maxLogoWidth {
		img = imgconv.Resize(img, &imgconv.ResizeOption{Width: maxLogoWidth})
	}
	var buf bytes.Buffer
	if err := imgconv.Write(&buf, img, &imgconv.FormatOption{Format: imgconv.PNG}); err != nil {
		return nil, "", "", fmt.Errorf("encode logo: %w", err)
	}
	return buf.Bytes(), "png", "image/png", nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (a *App) handleUploadLogo(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return newAPIError(http.StatusBadRequest, "No file provided", nil)
	}
	accountID := strings.TrimSpace(c.FormValue("accountId"))
	if accountID == "" {
		return newAPIError(http.StatusBadRequest, "No account ID provided", nil)
	}
	contentType := fh.Header.Get(echo.HeaderContentType)
	if !logoTypes[contentType] {
		return newAPIError(http.StatusBadRequest, "Invalid file type. Please upload an image file.", nil)
	}
	if fh.Size > maxLogoSize {
		return newAPIError(http.StatusBadRequest, "File too large. Please upload an image under 5MB.", nil)
	}
	data, err := readFormFile(fh)
	if err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to upload logo", err)
	}
	out, ext, outType, err := processLogo(data, contentType)
	if err != nil {
		return newAPIError(http.StatusBadRequest, "Invalid file type. Please upload an image file.", err)
	}
	key := fmt.Sprintf("logos/%s-%d.%s", accountID, time.Now().UnixMilli(), ext)
	url, err := a.Blobs.Put(c.Request().Context(), key, outType, out)
	if err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to upload logo", err)
	}
	a.Log.Info("logo uploaded", zap.String("account", accountID), zap.String("key", key), zap.Int("bytes", len(out)))
	return c.JSON(http.StatusOK, map[string]string{"url": AbsoluteURL(a.Config.BaseURL, url)})
}

// bannerSizes reads the optional size filter, sent either as repeated
// sizes[] fields or one comma separated sizes field.
func bannerSizes(form *multipart.Form) []string {
	var names []string
	for _, v := range append(form.Value["sizes[]"], form.Value["sizes"]...) {
		names = append(names, strings.Split(v, ",")...)
	}
	return FilterEmpty(names)
}

func (a *App) handleBanners(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return newAPIError(http.StatusBadRequest, "Invalid multipart form", err)
	}
	text := banner.Content{
		Headline: strings.TrimSpace(c.FormValue("headline")),
		Body:     strings.TrimSpace(c.FormValue("body_text")),
		CTA:      strings.TrimSpace(c.FormValue("cta_text")),
	}
	if err := validation.ValidateStruct(&text,
		validation.Field(&text.Headline, validation.Required),
	); err != nil {
		return newAPIError(http.StatusBadRequest, "Headline is required", err)
	}

	var bg *banner.Background
	if files := form.File["image"]; len(files) > 0 {
		if files[0].Size > maxBannerImage {
			return newAPIError(http.StatusBadRequest, "Image too large", nil)
		}
		data, err := readFormFile(files[0])
		if err != nil {
			return newAPIError(http.StatusBadRequest, "Failed to read image", err)
		}
		if bg = banner.DecodeBackground(data); bg == nil {
			a.Log.Warn("banner background undecodable, using gradient", zap.String("file", files[0].Filename))
		}
	}

	sizes := banner.SelectSizes(bannerSizes(form))
	if len(sizes) == 0 {
		return newAPIError(http.StatusBadRequest, "No known banner sizes requested", nil)
	}
	artifacts, err := banner.Render(c.Request().Context(), bg, text, sizes)
	if err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to render banners", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"banners": artifacts})
}
