package dogecloud

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

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Client calls the DogeCloud API with signed requests
type Client struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string
	secretKey  string
}

// Options configures a Client
type Options struct {
	BaseURL    string
	MaxRetries int           // 0 means a single attempt
	Timeout    time.Duration // 0 means no timeout
	Logger     zerolog.Logger
	HTTPClient *http.Client // underlying transport client, mostly for tests
}

// retryLogger implements the retryablehttp.LeveledLogger interface
type retryLogger struct {
	zlog zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.zlog.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.zlog.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.zlog.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.zlog.Warn().Fields(keysAndValues).Msg(msg)
}

// NewClient creates a new API client for the given account keys
func NewClient(accessKey, secretKey string, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	retryClient := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		retryClient.HTTPClient = opts.HTTPClient
	}
	retryClient.RetryMax = opts.MaxRetries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = retryLogger{zlog: opts.Logger}
	// Hand 5xx responses back so their JSON body becomes an APIError
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	httpClient := retryClient.StandardClient()
	httpClient.Timeout = opts.Timeout

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		accessKey:  accessKey,
		secretKey:  secretKey,
	}
}

// Call issues a signed POST to apiPath and decodes the response data into out.
// In form mode payload may be a pre-encoded string sent verbatim, url.Values
// or a string map. In JSON mode any value is encoded, strings included.
func (c *Client) Call(ctx context.Context, apiPath string, payload interface{}, jsonMode bool, out interface{}) error {
	body, err := encodeBody(payload, jsonMode)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	contentType := "application/x-www-form-urlencoded"
	if jsonMode {
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPath, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", authorization(c.accessKey, Sign(c.secretKey, apiPath, body)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "POST " + apiPath, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read response", Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &TransportError{
			Op:  "decode response",
			Err: fmt.Errorf("HTTP %d: %w", resp.StatusCode, err),
		}
	}

	if env.Code != 200 {
		return &APIError{Code: env.Code, Message: env.Msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: "decode response data", Err: err}
	}
	return nil
}

// TmpToken requests temporary object storage credentials
func (c *Client) TmpToken(ctx context.Context, channel string, scopes []string) (*TmpToken, error) {
	if channel == "" {
		channel = ChannelOSSFull
	}
	if len(scopes) == 0 {
		scopes = []string{"*"}
	}

	var token TmpToken
	if err := c.Call(ctx, tmpTokenPath, tmpTokenRequest{Channel: channel, Scopes: scopes}, true, &token); err != nil {
		return nil, err
	}

	if token.Credentials.AccessKeyID == "" || token.Credentials.SecretAccessKey == "" {
		return nil, &TransportError{Op: "decode response data", Err: errors.New("response has no credentials")}
	}
	if token.ExpiredAt > 0 {
		token.Credentials.Expiration = time.Unix(token.ExpiredAt, 0)
	}

	return &token, nil
}

func encodeBody(payload interface{}, jsonMode bool) (string, error) {
	switch p := payload.(type) {
	case nil:
		if jsonMode {
			return "{}", nil
		}
		return "", nil
	case string:
		if !jsonMode {
			return p, nil
		}
	}

	if jsonMode {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(payload); err != nil {
			return "", err
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	}

	switch p := payload.(type) {
	case url.Values:
		return p.Encode(), nil
	case map[string]string:
		values := url.Values{}
		for k, v := range p {
			values.Set(k, v)
		}
		return values.Encode(), nil
	case map[string][]string:
		return url.Values(p).Encode(), nil
	default:
		return "", fmt.Errorf("form mode does not support payload of type %T", payload)
	}
}
