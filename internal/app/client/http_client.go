package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/remote"
)

const collectionsPath = "/api/v1/collections/"

// HTTPStore адаптер удаленного хранилища поверх HTTP API сервера.
type HTTPStore struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

// NewHTTPStore создает адаптер. baseURL включает схему, например
// "http://localhost:8080".
func NewHTTPStore(baseURL, token string, log *slog.Logger) *HTTPStore {
	client := &http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &HTTPStore{
		client:    client,
		log:       log.With("component", "http_store"),
		baseURL:   baseURL,
		token:     token,
		userAgent: "Shelfkeeper-Client/1.0",
	}
}

// BaseURL собирает адрес сервера из host:port и признака TLS.
func BaseURL(address string, tls bool) string {
	scheme := "http://"
	if tls {
		scheme = "https://"
	}
	return scheme + address
}

// SetToken устанавливает токен аутентификации
func (h *HTTPStore) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *HTTPStore) HealthCheck(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *HTTPStore) Create(ctx context.Context, coll remote.Collection, fields remote.Fields) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, collectionsPath+url.PathEscape(coll.String()), fields)
	if err != nil {
		return "", err
	}

	var createResp struct {
		ID string `json:"id"`
	}
	if err := h.parseResponse(resp, &createResp); err != nil {
		return "", err
	}
	if createResp.ID == "" {
		return "", fmt.Errorf("%w: пустой id в ответе сервера", remote.ErrUnavailable)
	}
	return createResp.ID, nil
}

func (h *HTTPStore) Patch(ctx context.Context, coll remote.Collection, id entity.RemoteID, fields remote.Fields) error {
	resp, err := h.doRequest(ctx, http.MethodPatch, documentPath(coll, id), fields)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *HTTPStore) Delete(ctx context.Context, coll remote.Collection, id entity.RemoteID) error {
	resp, err := h.doRequest(ctx, http.MethodDelete, documentPath(coll, id), nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *HTTPStore) QueryByField(ctx context.Context, coll remote.Collection, field string, value any) ([]remote.Document, error) {
	raw, typ := encodeQueryValue(value)
	q := url.Values{}
	q.Set("field", field)
	q.Set("value", raw)
	q.Set("type", typ)

	resp, err := h.doRequest(ctx, http.MethodGet, collectionsPath+url.PathEscape(coll.String())+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var queryResp struct {
		Documents []remote.Document `json:"documents"`
	}
	if err := h.parseResponse(resp, &queryResp); err != nil {
		return nil, err
	}
	return queryResp.Documents, nil
}

func documentPath(coll remote.Collection, id entity.RemoteID) string {
	return collectionsPath + url.PathEscape(coll.String()) + "/" + url.PathEscape(id.String())
}

func encodeQueryValue(value any) (string, string) {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v), "bool"
	case int:
		return strconv.Itoa(v), "number"
	case int64:
		return strconv.FormatInt(v, 10), "number"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), "number"
	case time.Time:
		return v.Format(time.RFC3339Nano), "string"
	case string:
		return v, "string"
	}
	return fmt.Sprint(value), "string"
}

func (h *HTTPStore) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: ошибка маршалинга тела запроса: %v", remote.ErrRejected, err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка создания запроса: %v", remote.ErrRejected, err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", remote.ErrUnavailable, err)
	}

	return resp, nil
}

func (h *HTTPStore) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: ошибка чтения ответа: %v", remote.ErrUnavailable, err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
	)

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, body)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("%w: ошибка парсинга ответа: %v", remote.ErrUnavailable, err)
		}
	}

	return nil
}

// statusError переводит HTTP статус в вид ошибки удаленного хранилища.
func statusError(status int, body []byte) error {
	var errResp struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	msg := fmt.Sprintf("статус %d", status)
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Detail != "":
			msg = errResp.Detail
		case errResp.Error != "":
			msg = errResp.Error
		}
	}

	var kind error
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		kind = remote.ErrPermissionDenied
	case status == http.StatusNotFound:
		kind = remote.ErrNotFound
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		kind = remote.ErrUnavailable
	default:
		kind = remote.ErrRejected
	}
	return fmt.Errorf("%w: %s", kind, msg)
}
