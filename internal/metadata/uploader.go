// internal/metadata/uploader.go
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultRequestTimeout = 60 * time.Second
	imagePath             = "/upload/img"
	metaPath              = "/upload/meta"
	maxResponseBytes      = 1 << 16
)

// ErrMetadataURIEmpty возвращается, если сервис вернул пустой URI.
var ErrMetadataURIEmpty = errors.New("metadata service returned an empty uri")

// TokenInfo описывает метаданные токена для загрузки.
type TokenInfo struct {
	Name        string
	Symbol      string
	Description string
	CreatedOn   string
	ImagePath   string
	Twitter     string
	Telegram    string
	Website     string
}

// tokenDescriptor - JSON-тело запроса /upload/meta.
type tokenDescriptor struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	CreatedOn   string `json:"createdOn"`
	PlatformID  string `json:"platformId"`
	Image       string `json:"image"`
	Twitter     string `json:"twitter,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Uploader загружает изображение и дескриптор токена в хранилище bonk.fun.
type Uploader struct {
	client  *http.Client
	logger  *zap.Logger
	baseURL string
}

// NewUploader создает новый экземпляр загрузчика.
func NewUploader(baseURL string, logger *zap.Logger) *Uploader {
	return &Uploader{
		client:  &http.Client{Timeout: defaultRequestTimeout},
		logger:  logger.Named("metadata"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload загружает изображение, затем дескриптор, и возвращает URI метаданных.
func (u *Uploader) Upload(ctx context.Context, info TokenInfo) (string, error) {
	imageURI, err := u.UploadImage(ctx, info.ImagePath)
	if err != nil {
		return "", err
	}
	u.logger.Info("Image uploaded", zap.String("uri", imageURI))

	metaURI, err := u.UploadDescriptor(ctx, info, imageURI)
	if err != nil {
		return "", err
	}
	u.logger.Info("Metadata uploaded", zap.String("uri", metaURI))
	return metaURI, nil
}

// UploadImage отправляет файл изображения multipart-запросом.
func (u *Uploader) UploadImage(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return u.post(ctx, imagePath, writer.FormDataContentType(), body)
}

// UploadDescriptor отправляет JSON-дескриптор токена.
func (u *Uploader) UploadDescriptor(ctx context.Context, info TokenInfo, imageURI string) (string, error) {
	payload, err := json.Marshal(tokenDescriptor{
		Name:        info.Name,
		Symbol:      info.Symbol,
		Description: info.Description,
		CreatedOn:   info.CreatedOn,
		PlatformID:  "platformId",
		Image:       imageURI,
		Twitter:     info.Twitter,
		Telegram:    info.Telegram,
		Website:     info.Website,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode descriptor: %w", err)
	}
	return u.post(ctx, metaPath, "application/json", bytes.NewReader(payload))
}

func (u *Uploader) post(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	uri := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if uri == "" {
		return "", fmt.Errorf("%s: %w", path, ErrMetadataURIEmpty)
	}
	return uri, nil
}
