// Package remote клиент единственной RPC точки сервера.
//
// Чтение: GET <endpoint>?action=getJCB&userName=...&role=...
// Запись: POST <endpoint> {"action":"addJCB","data":{...}}
// Вход:   GET <endpoint>?action=login&password=...
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"
)

// Response общий конверт ответа сервера
type Response struct {
	Success         bool            `json:"success"`
	Data            json.RawMessage `json:"data,omitempty"`
	ActualEntryTime string          `json:"actualEntryTime,omitempty"`
	Error           string          `json:"error,omitempty"`
	Role            string          `json:"role,omitempty"`
	Name            string          `json:"name,omitempty"`
}

// Request тело POST запроса
type Request struct {
	Action string `json:"action"`
	Data   any    `json:"data"`
}

type HTTPClient struct {
	client    *http.Client
	log       *slog.Logger
	endpoint  string
	userAgent string
}

func NewHTTPClient(endpoint string, timeout time.Duration, log *slog.Logger) (*HTTPClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("некорректный адрес сервера: %q", endpoint)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &HTTPClient{
		client:    client,
		log:       log.With("component", "remote"),
		endpoint:  endpoint,
		userAgent: "SiteLog-Client/1.0",
	}, nil
}

// Get выполняет чтение с указанным действием
func (h *HTTPClient) Get(ctx context.Context, action string, params url.Values) (*Response, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("action", action)

	u, _ := url.Parse(h.endpoint)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	return h.do(req, action)
}

// Post отправляет действие с данными
func (h *HTTPClient) Post(ctx context.Context, action string, data any) (*Response, error) {
	body, err := json.Marshal(Request{Action: action, Data: data})
	if err != nil {
		return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return h.do(req, action)
}

// Login проверяет пароль и возвращает роль и имя пользователя
func (h *HTTPClient) Login(ctx context.Context, password string) (*Response, error) {
	return h.Get(ctx, "login", url.Values{"password": {password}})
}

// Ping проверяет доступность сервера
func (h *HTTPClient) Ping(ctx context.Context) error {
	_, err := h.Get(ctx, "ping", nil)
	return err
}

func (h *HTTPClient) do(req *http.Request, action string) (*Response, error) {
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "application/json")

	h.log.Debug("Отправка запроса",
		"method", req.Method,
		"action", action,
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTransport, action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: чтение ответа %s: %v", ErrTransport, action, err)
	}

	h.log.Debug("Получен ответ",
		"action", action,
		"status", resp.StatusCode,
		"size", len(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: сервер вернул статус %d", ErrTransport, action, resp.StatusCode)
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %s: ошибка парсинга ответа: %v", ErrTransport, action, err)
	}

	return &result, nil
}
