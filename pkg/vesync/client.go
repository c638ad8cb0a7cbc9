package vesync

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://smartapi.vesync.com"
	appVersion     = "2.8.6"
	phoneBrand     = "SM N9005"
	phoneOS        = "Android"
	userType       = "1"
)

var (
	// ErrAuth is returned when the cloud rejects the account credentials.
	ErrAuth = errors.New("vesync: authentication failed")
	// ErrNotLoggedIn is returned when an API call is attempted before Login.
	ErrNotLoggedIn = errors.New("vesync: not logged in")
	// ErrOutOfRange marks a locally rejected command parameter.
	ErrOutOfRange = errors.New("vesync: value out of range")
	// ErrUnsupported marks a command the device does not declare.
	ErrUnsupported = errors.New("vesync: unsupported by device")
)

// APIError is a non-zero result code reported by the cloud backend.
type APIError struct {
	Code int64
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vesync: api error %d: %s", e.Code, e.Msg)
}

type Client struct {
	baseURL    string
	username   string
	password   string
	timeZone   string
	httpClient *http.Client
	logger     *zap.Logger

	token     string
	accountID string
}

func NewClient(username, password, timeZone string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeZone == "" {
		timeZone = "America/New_York"
	}
	return &Client{
		baseURL:    defaultBaseURL,
		username:   username,
		password:   password,
		timeZone:   timeZone,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("component", "vesync_client")),
	}
}

type responseEnvelope struct {
	Code   int64           `json:"code"`
	Msg    string          `json:"msg"`
	Result json.RawMessage `json:"result"`
}

type loginResult struct {
	Token     string `json:"token"`
	AccountID string `json:"accountID"`
}

func hashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (c *Client) Login(ctx context.Context) error {
	body := map[string]any{
		"email":      c.username,
		"password":   hashPassword(c.password),
		"devToken":   "",
		"userType":   userType,
		"method":     "login",
		"appVersion": appVersion,
		"phoneBrand": phoneBrand,
		"phoneOS":    phoneOS,
		"timeZone":   c.timeZone,
		"acceptLanguage": "en",
		"traceId":    fmt.Sprintf("%d", time.Now().Unix()),
	}
	var result loginResult
	if err := c.post(ctx, "/cloud/v1/user/login", body, &result); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%w: %s", ErrAuth, apiErr.Msg)
		}
		return err
	}
	c.token = result.Token
	c.accountID = result.AccountID
	return nil
}

func (c *Client) LoggedIn() bool {
	return c.token != ""
}

type deviceListResult struct {
	List []deviceRecord `json:"list"`
}

type deviceRecord struct {
	DeviceName       string `json:"deviceName"`
	DeviceType       string `json:"deviceType"`
	CID              string `json:"cid"`
	UUID             string `json:"uuid"`
	MacID            string `json:"macID"`
	SubDeviceNo      *int   `json:"subDeviceNo"`
	ConnectionStatus string `json:"connectionStatus"`
	DeviceStatus     string `json:"deviceStatus"`
	ConfigModule     string `json:"configModule"`
	CurrentFirmVersion string `json:"currentFirmVersion"`
}

func (r deviceRecord) meta() DeviceMeta {
	return DeviceMeta{
		CID:              r.CID,
		UUID:             r.UUID,
		MacID:            r.MacID,
		ConfigModule:     r.ConfigModule,
		SubDeviceNo:      r.SubDeviceNo,
		DeviceName:       r.DeviceName,
		DeviceType:       r.DeviceType,
		FirmwareVersion:  r.CurrentFirmVersion,
		ConnectionStatus: r.ConnectionStatus,
	}
}

// FetchDevices pulls the account device list.
func (c *Client) FetchDevices(ctx context.Context) ([]deviceRecord, error) {
	if !c.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	body := c.authBody()
	body["method"] = "devices"
	body["pageNo"] = "1"
	body["pageSize"] = "100"
	var result deviceListResult
	if err := c.post(ctx, "/cloud/v2/deviceManaged/devices", body, &result); err != nil {
		return nil, err
	}
	return result.List, nil
}

// FetchDetails refreshes a single device's detail payload through the
// bypassV2 endpoint.
func (c *Client) FetchDetails(ctx context.Context, meta DeviceMeta, method string) (map[string]any, error) {
	if !c.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	body := c.authBody()
	body["method"] = "bypassV2"
	body["cid"] = meta.CID
	body["configModule"] = meta.ConfigModule
	body["deviceRegion"] = "EU"
	body["payload"] = map[string]any{
		"method": method,
		"source": "APP",
		"data":   map[string]any{},
	}
	var result struct {
		Code   int64          `json:"code"`
		Result map[string]any `json:"result"`
	}
	if err := c.post(ctx, "/cloud/v2/deviceManaged/bypassV2", body, &result); err != nil {
		return nil, err
	}
	if result.Code != 0 {
		return nil, &APIError{Code: result.Code, Msg: "device detail error"}
	}
	return result.Result, nil
}

// Command implements Dispatcher. A non-zero inner result code counts as a
// vendor-reported failure.
func (c *Client) Command(ctx context.Context, meta DeviceMeta, method string, params map[string]any) error {
	if !c.LoggedIn() {
		return ErrNotLoggedIn
	}
	if params == nil {
		params = map[string]any{}
	}
	body := c.authBody()
	body["method"] = "bypassV2"
	body["cid"] = meta.CID
	body["configModule"] = meta.ConfigModule
	body["payload"] = map[string]any{
		"method": method,
		"source": "APP",
		"data":   params,
	}
	var result struct {
		Code int64 `json:"code"`
	}
	if err := c.post(ctx, "/cloud/v2/deviceManaged/bypassV2", body, &result); err != nil {
		return err
	}
	if result.Code != 0 {
		return &APIError{Code: result.Code, Msg: fmt.Sprintf("command %s rejected", method)}
	}
	return nil
}

func (c *Client) authBody() map[string]any {
	return map[string]any{
		"accountID":      c.accountID,
		"token":          c.token,
		"timeZone":       c.timeZone,
		"acceptLanguage": "en",
		"appVersion":     appVersion,
		"phoneBrand":     phoneBrand,
		"phoneOS":        phoneOS,
		"traceId":        fmt.Sprintf("%d", time.Now().Unix()),
	}
}

func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("tk", c.token)
		req.Header.Set("accountid", c.accountID)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vesync: http %d from %s", resp.StatusCode, path)
	}
	var envelope responseEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("vesync: decode %s: %w", path, err)
	}
	if envelope.Code != 0 {
		return &APIError{Code: envelope.Code, Msg: envelope.Msg}
	}
	if out != nil && envelope.Result != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("vesync: decode %s result: %w", path, err)
		}
	}
	return nil
}
