package predictus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/pxlabs/kye-screener/internal/domain"
	"github.com/pxlabs/kye-screener/internal/records"
)

const searchByCPFPath = "/predictus-api/processos/judiciais/buscarPorCPFParte"

type Config struct {
	Username string
	Password string
	BaseURL  string
	Timeout  time.Duration
}

type Client struct {
	username string
	password string
	baseURL  string
	client   *http.Client
	logger   *zap.Logger

	mu          sync.RWMutex
	accessToken string
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.predictus.com.br"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		username: cfg.Username,
		password: cfg.Password,
		baseURL:  cfg.BaseURL,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

type searchRequest struct {
	CPF string `json:"cpf"`
}

type processoJSON struct {
	NumeroProcessoUnico string `json:"numeroProcessoUnico"`
	Tribunal            string `json:"tribunal"`
	ClasseProcessual    struct {
		Nome string `json:"nome"`
	} `json:"classeProcessual"`
	Partes []parteJSON `json:"partes"`
	ValorCausa *struct {
		Valor float64 `json:"valor"`
	} `json:"valorCausa"`
	DataDistribuicao string `json:"dataDistribuicao"`
}

type parteJSON struct {
	Nome string `json:"nome"`
	CPF  string `json:"cpf"`
	Tipo string `json:"tipo"`
}

func (c *Client) FetchBySubject(ctx context.Context, subjectID string) ([]domain.CaseRecord, error) {
	body, err := json.Marshal(searchRequest{CPF: subjectID})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	respBody, statusCode, err := c.doAuthenticated(ctx, searchByCPFPath, body, false)
	if err != nil {
		return nil, err
	}

	switch statusCode {
	case http.StatusOK:
		// 200 с пустым телом = чистый CPF, провайдер так умеет
		if len(bytes.TrimSpace(respBody)) == 0 {
			return []domain.CaseRecord{}, nil
		}

		var processos []processoJSON
		if err := json.Unmarshal(respBody, &processos); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		return c.toCaseRecords(processos, subjectID), nil

	case http.StatusNoContent:
		return []domain.CaseRecord{}, nil

	case http.StatusForbidden:
		return nil, records.ErrUnauthorized

	case http.StatusTooManyRequests:
		return nil, records.ErrRateLimit

	case http.StatusBadRequest:
		return nil, records.ErrInvalidRequest

	default:
		return nil, fmt.Errorf("%w: status %d", records.ErrFetchFailed, statusCode)
	}
}

// doAuthenticated делает запрос с Bearer-токеном; на 401 один раз
// переавторизуется и повторяет. 5xx ретраит с backoff.
func (c *Client) doAuthenticated(ctx context.Context, path string, body []byte, isRetry bool) ([]byte, int, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	var lastErr error
	backoff := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	for attempt := 0; attempt <= len(backoff); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff[attempt-1]):
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, 0, fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("do request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			if isRetry {
				return nil, resp.StatusCode, records.ErrUnauthorized
			}
			c.invalidateToken()
			return c.doAuthenticated(ctx, path, body, true)
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}

		return respBody, resp.StatusCode, nil
	}

	return nil, 0, fmt.Errorf("%w: %v", records.ErrUnavailable, lastErr)
}

type authResponse struct {
	AccessToken string `json:"accessToken"`
}

func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.accessToken != "" {
		token := c.accessToken
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	return c.authenticate(ctx)
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// double-check после захвата лока
	if c.accessToken != "" {
		return c.accessToken, nil
	}

	payload, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal auth request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create auth request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", records.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("predictus auth failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return "", records.ErrUnauthorized
	}

	var authResp authResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", fmt.Errorf("decode auth response: %w", err)
	}
	if authResp.AccessToken == "" {
		return "", records.ErrUnauthorized
	}

	c.accessToken = authResp.AccessToken
	c.logger.Debug("predictus token refreshed")
	return c.accessToken, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
}

func (c *Client) toCaseRecords(processos []processoJSON, subjectID string) []domain.CaseRecord {
	out := make([]domain.CaseRecord, 0, len(processos))
	for _, p := range processos {
		rec := domain.CaseRecord{
			Number: p.NumeroProcessoUnico,
			Court:  p.Tribunal,
			Class:  p.ClasseProcessual.Nome,
			Role:   subjectRole(p.Partes, subjectID),
		}

		if p.ValorCausa != nil {
			v := p.ValorCausa.Valor
			rec.Value = &v
		}

		if p.DataDistribuicao != "" {
			if t, err := time.Parse("2006-01-02", p.DataDistribuicao); err == nil {
				rec.FiledAt = &t
			}
		}

		out = append(out, rec)
	}
	return out
}

// subjectRole ищет партию субъекта по CPF. Без совпадения роль остается
// пустой и скоринг трактует ее как "не ответчик".
func subjectRole(partes []parteJSON, subjectID string) string {
	for _, parte := range partes {
		if digitsOnly(parte.CPF) == subjectID {
			return parte.Tipo
		}
	}
	return ""
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
