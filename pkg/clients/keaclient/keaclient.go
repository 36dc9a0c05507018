package keaclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vitistack/common/pkg/loggers/vlog"
	"github.com/vitistack/kea-hostimport/internal/consts"
	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"
)

type keaClient struct {
	BaseUrl    string
	Port       string
	HttpClient *http.Client

	// TLS options
	CACertPath         string
	ClientCertPath     string
	ClientKeyPath      string
	InsecureSkipVerify bool
	ServerName         string

	// in-memory TLS material, e.g. from a Kubernetes secret; wins over the paths
	CACertPEM     []byte
	ClientCertPEM []byte
	ClientKeyPEM  []byte

	DisableKeepAlives bool
	Timeout           time.Duration
}

func NewKeaClient(baseUrl, port string) *keaClient {
	kc := getDefaultKeaConnectionConfig()
	options := []KeaOption{
		OptionHost(baseUrl),
		OptionPort(port),
	}
	kc.applyOptions(options...)
	// Rebuild HTTP client with any provided TLS options
	kc.buildHTTPClient()
	return kc
}

// NewKeaClientWithOptions creates a client using functional options.
func NewKeaClientWithOptions(opts ...KeaOption) *keaClient {
	kc := getDefaultKeaConnectionConfig()
	kc.applyOptions(opts...)
	kc.buildHTTPClient()
	return kc
}

func getDefaultKeaConnectionConfig() *keaClient {
	kc := &keaClient{}
	kc.applyDefaults()
	return kc
}

func (kc *keaClient) applyOptions(options ...KeaOption) {
	for _, opt := range options {
		opt.apply(kc)
	}
}

func (kc *keaClient) applyDefaults() {
	kc.Timeout = 10 * time.Second
	// Default plain client; may be overridden by buildHTTPClient()
	kc.HttpClient = &http.Client{Timeout: kc.Timeout}
}

// Send posts cmd to the Kea control agent and returns the first response.
// The agent answers with a JSON array holding one response per service.
func (c *keaClient) Send(ctx context.Context, cmd keamodels.Request) (keamodels.Response, error) {
	base, err := c.buildBaseURL()
	if err != nil {
		return keamodels.Response{}, err
	}
	body, err := json.Marshal(cmd)
	if err != nil {
		return keamodels.Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/", bytes.NewReader(body))
	if err != nil {
		return keamodels.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return keamodels.Response{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			vlog.Error("failed to close response body: %v", cerr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return keamodels.Response{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return keamodels.Response{}, fmt.Errorf("kea control agent returned %s", resp.Status)
	}

	var out []keamodels.Response
	if err := json.Unmarshal(raw, &out); err != nil {
		// some agents answer a single command with a bare object
		var single keamodels.Response
		if err2 := json.Unmarshal(raw, &single); err2 != nil {
			return keamodels.Response{}, err
		}
		out = []keamodels.Response{single}
	}
	if len(out) == 0 {
		return keamodels.Response{}, errors.New("empty response")
	}
	return out[0], nil
}

// buildBaseURL constructs a full base URL including scheme and port if needed.
func (c *keaClient) buildBaseURL() (string, error) {
	s := c.BaseUrl
	if s == "" {
		return "", errors.New("base URL is empty")
	}
	s = strings.TrimRight(s, "/")
	if !strings.Contains(s, "://") {
		// Default to https if TLS material is configured, else http
		if c.tlsNeeded() {
			s = "https://" + s
		} else {
			s = "http://" + s
		}
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	host := u.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		// No port present; add if provided
		if c.Port != "" {
			host = net.JoinHostPort(u.Hostname(), c.Port)
		}
	}
	u.Host = host
	return u.String(), nil
}

func (c *keaClient) tlsNeeded() bool {
	return c.CACertPath != "" || len(c.CACertPEM) > 0 ||
		(c.ClientCertPath != "" && c.ClientKeyPath != "") ||
		(len(c.ClientCertPEM) > 0 && len(c.ClientKeyPEM) > 0) ||
		c.InsecureSkipVerify ||
		c.ServerName != ""
}

// buildHTTPClient builds the HTTP client with TLS settings, if any are provided.
func (c *keaClient) buildHTTPClient() {
	if c.HttpClient == nil {
		c.HttpClient = &http.Client{}
	}
	c.HttpClient.Timeout = c.Timeout

	if !c.tlsNeeded() {
		if c.DisableKeepAlives {
			c.HttpClient.Transport = &http.Transport{DisableKeepAlives: true}
		}
		return
	}

	// #nosec G402 -- InsecureSkipVerify is intentionally allowed for test/dev usage.
	tlsCfg := &tls.Config{
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
	if c.ServerName != "" {
		tlsCfg.ServerName = c.ServerName
	}

	caPEM := c.CACertPEM
	if len(caPEM) == 0 && c.CACertPath != "" {
		if b, err := os.ReadFile(c.CACertPath); err == nil {
			caPEM = b
		} else {
			vlog.Warn("failed to read kea CA file", "path", c.CACertPath, "error", err)
		}
	}
	if len(caPEM) > 0 {
		pool := x509.NewCertPool()
		if pool.AppendCertsFromPEM(caPEM) {
			tlsCfg.RootCAs = pool
		}
	}

	switch {
	case len(c.ClientCertPEM) > 0 && len(c.ClientKeyPEM) > 0:
		if cert, err := tls.X509KeyPair(c.ClientCertPEM, c.ClientKeyPEM); err == nil {
			tlsCfg.Certificates = []tls.Certificate{cert}
		} else {
			vlog.Warn("invalid kea client certificate material", "error", err)
		}
	case c.ClientCertPath != "" && c.ClientKeyPath != "":
		if cert, err := tls.LoadX509KeyPair(c.ClientCertPath, c.ClientKeyPath); err == nil {
			tlsCfg.Certificates = []tls.Certificate{cert}
		} else {
			vlog.Warn("failed to load kea client certificate", "error", err)
		}
	}
	c.HttpClient.Transport = &http.Transport{TLSClientConfig: tlsCfg, DisableKeepAlives: c.DisableKeepAlives}
}

// NewKeaClientFromEnv builds a Kea client using environment variables.
// Supported env vars:
//
//	KEA_URL or KEA_BASE_URL (e.g. https://kea.example:8000) or KEA_HOST and optional KEA_PORT
//	KEA_TLS_CA_FILE, KEA_TLS_CERT_FILE, KEA_TLS_KEY_FILE
//	KEA_TLS_INSECURE (true/false)
//	KEA_TLS_SERVER_NAME
//	KEA_TIMEOUT_SECONDS (default 10)
//	KEA_DISABLE_KEEPALIVES
func NewKeaClientFromEnv() *keaClient {
	return NewKeaClientWithOptions(OptionFromEnv())
}

func envBaseURL() string {
	for _, key := range []string{consts.KEA_URL, consts.KEA_BASE_URL, consts.KEA_HOST} {
		_ = viper.BindEnv(key)
		if v := viper.GetString(key); v != "" {
			return v
		}
	}
	return ""
}
