package vesync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("user@example.com", "secret", "Europe/Madrid", 5*time.Second, zap.NewNop())
	c.baseURL = srv.URL
	return c
}

func TestClientLogin(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cloud/v1/user/login", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body["email"])
		// Password travels hashed, never in clear.
		assert.Equal(t, hashPassword("secret"), body["password"])
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"result": map[string]any{
				"token":     "tok-123",
				"accountID": "acc-456",
			},
		})
	})

	assert.NoError(t, c.Login(context.Background()))
	assert.True(t, c.LoggedIn())
	assert.Equal(t, "tok-123", c.token)
	assert.Equal(t, "acc-456", c.accountID)
}

func TestClientLoginRejected(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": -11201022, "msg": "password incorrect"})
	})

	err := c.Login(context.Background())
	assert.ErrorIs(t, err, ErrAuth)
	assert.False(t, c.LoggedIn())
}

func TestClientRequiresLogin(t *testing.T) {
	c := NewClient("user@example.com", "secret", "", time.Second, zap.NewNop())

	_, err := c.FetchDevices(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	err = c.Command(context.Background(), DeviceMeta{CID: "x"}, "turnOn", nil)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestClientFetchDevices(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cloud/v2/deviceManaged/devices", r.URL.Path)
		assert.Equal(t, "tok-123", r.Header.Get("tk"))
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"result": map[string]any{
				"list": []map[string]any{
					{
						"deviceName":       "Kitchen Outlet",
						"deviceType":       "ESW15-USA",
						"cid":              "cid-1",
						"uuid":             "uuid-1",
						"connectionStatus": "online",
						"deviceStatus":     "on",
						"configModule":     "OutdoorSocket15A",
					},
				},
			},
		})
	})
	c.token = "tok-123"
	c.accountID = "acc-456"

	records, err := c.FetchDevices(context.Background())
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	meta := records[0].meta()
	assert.Equal(t, "cid-1", meta.BaseID())
	assert.Equal(t, "ESW15-USA", meta.DeviceType)
	assert.True(t, meta.Online())
}

func TestClientCommandVendorRejection(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code":   0,
			"result": map[string]any{"code": 11000000},
		})
	})
	c.token = "tok-123"

	err := c.Command(context.Background(), DeviceMeta{CID: "cid-1"}, "setLevel", map[string]any{"level": 2})
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, int64(11000000), apiErr.Code)
}

func TestClientHTTPError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c.token = "tok-123"

	_, err := c.FetchDevices(context.Background())
	assert.Error(t, err)
}
