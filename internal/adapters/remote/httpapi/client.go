package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/bnema/usahome-cli/internal/ports"
	gocache "github.com/patrickmn/go-cache"
)

const maxResponseBytes = 1 << 20

const (
	accountPathPattern  = "/api/accounts/%s"
	servicesPathPattern = "/api/accounts/%s/services"
	loginPath           = "/api/auth/login"
	logoutPath          = "/api/auth/logout"
)

// Client talks to the USA Home REST backend. A positive CacheTTL memoizes
// account reads in process; publishing services drops the memo for that
// identity.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration

	memo *gocache.Cache
}

var (
	_ ports.AccountSource    = (*Client)(nil)
	_ ports.ServicePublisher = (*Client)(nil)
	_ ports.Authenticator    = (*Client)(nil)
)

func NewClient(baseURL string, httpClient *http.Client, requestTimeout time.Duration, cacheTTL time.Duration) *Client {
	client := &Client{
		BaseURL:        strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTPClient:     httpClient,
		RequestTimeout: requestTimeout,
	}
	if cacheTTL > 0 {
		client.memo = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return client
}

type accountResponse struct {
	Identity          string          `json:"identity"`
	IsProfessional    bool            `json:"is_professional"`
	ServiceCategories json.RawMessage `json:"service_categories"`
}

type publishRequest struct {
	ServiceCategories []string `json:"service_categories"`
}

type loginRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

type loginResponse struct {
	Identity       string `json:"identity"`
	IsProfessional bool   `json:"is_professional"`
	Token          string `json:"token"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FetchAccount returns an Account whose ServiceCategories is nil when the
// record has no service_categories field or it is null. A field of any other
// non-array type is reported as domain.ErrMalformedPayload.
func (c *Client) FetchAccount(ctx context.Context, identity domain.Identity, token string) (domain.Account, error) {
	if account, ok := c.memoized(identity); ok {
		return account, nil
	}

	endpoint, err := buildAPIURL(c.BaseURL, fmt.Sprintf(accountPathPattern, url.PathEscape(string(identity))))
	if err != nil {
		return domain.Account{}, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Account{}, fmt.Errorf("create account request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	setBearer(req, token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.Account{}, fmt.Errorf("request account: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Account{}, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, identity)
	}
	if !isSuccess(resp.StatusCode) {
		return domain.Account{}, fmt.Errorf("%w: request account: %s", domain.ErrRemoteUnavailable, decodeError(resp))
	}

	var payload accountResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return domain.Account{}, fmt.Errorf("%w: decode account response: %w", domain.ErrMalformedPayload, err)
	}

	categories, err := decodeCategories(payload.ServiceCategories)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		Identity:          domain.Identity(strings.ToLower(strings.TrimSpace(payload.Identity))),
		IsProfessional:    payload.IsProfessional,
		ServiceCategories: categories,
	}
	c.remember(identity, account)

	return account, nil
}

func (c *Client) PublishServices(ctx context.Context, identity domain.Identity, token string, services []domain.ServiceName) error {
	endpoint, err := buildAPIURL(c.BaseURL, fmt.Sprintf(servicesPathPattern, url.PathEscape(string(identity))))
	if err != nil {
		return err
	}

	names := make([]string, 0, len(services))
	for _, service := range services {
		names = append(names, string(service))
	}
	body, err := json.Marshal(publishRequest{ServiceCategories: names})
	if err != nil {
		return fmt.Errorf("encode services: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("publish services: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("publish services: %s", decodeError(resp))
	}

	c.forget(identity)
	return nil
}

func (c *Client) Login(ctx context.Context, identity domain.Identity, password string) (domain.Session, error) {
	endpoint, err := buildAPIURL(c.BaseURL, loginPath)
	if err != nil {
		return domain.Session{}, err
	}

	body, err := json.Marshal(loginRequest{Identity: string(identity), Password: password})
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode login request: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Session{}, fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.Session{}, fmt.Errorf("request login: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	if !isSuccess(resp.StatusCode) {
		return domain.Session{}, fmt.Errorf("request login: %s", decodeError(resp))
	}

	var payload loginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return domain.Session{}, fmt.Errorf("decode login response: %w", err)
	}
	if strings.TrimSpace(payload.Token) == "" {
		return domain.Session{}, errors.New("login response missing token")
	}

	sessionIdentity := identity
	if payload.Identity != "" {
		parsed, err := domain.ParseIdentity(payload.Identity)
		if err != nil {
			return domain.Session{}, fmt.Errorf("login response: %w", err)
		}
		sessionIdentity = parsed
	}

	return domain.Session{
		Identity:       sessionIdentity,
		IsProfessional: payload.IsProfessional,
		Token:          payload.Token,
	}, nil
}

func (c *Client) Logout(ctx context.Context, session domain.Session) error {
	endpoint, err := buildAPIURL(c.BaseURL, logoutPath)
	if err != nil {
		return err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create logout request: %w", err)
	}
	setBearer(req, session.Token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("request logout: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) && resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("request logout: %s", decodeError(resp))
	}

	c.forget(session.Identity)
	return nil
}

func decodeCategories(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var values []any
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return nil, fmt.Errorf("%w: service_categories is not an array", domain.ErrMalformedPayload)
	}

	categories := make([]string, 0, len(values))
	for _, value := range values {
		if name, ok := value.(string); ok {
			categories = append(categories, name)
		}
	}
	return categories, nil
}

func (c *Client) memoized(identity domain.Identity) (domain.Account, bool) {
	if c.memo == nil {
		return domain.Account{}, false
	}

	value, ok := c.memo.Get(string(identity))
	if !ok {
		return domain.Account{}, false
	}
	account, ok := value.(domain.Account)
	if !ok {
		return domain.Account{}, false
	}
	return cloneAccount(account), true
}

func (c *Client) remember(identity domain.Identity, account domain.Account) {
	if c.memo == nil {
		return
	}
	c.memo.SetDefault(string(identity), cloneAccount(account))
}

func (c *Client) forget(identity domain.Identity) {
	if c.memo == nil {
		return
	}
	c.memo.Delete(string(identity))
}

func cloneAccount(account domain.Account) domain.Account {
	if account.ServiceCategories != nil {
		categories := make([]string, len(account.ServiceCategories))
		copy(categories, account.ServiceCategories)
		account.ServiceCategories = categories
	}
	return account
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func setBearer(req *http.Request, token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func decodeError(resp *http.Response) string {
	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}

	message := payload.Message
	if message == "" {
		message = payload.Error
	}
	if message == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, message)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return strings.TrimRight(parsed.String(), "/") + path, nil
}
