package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/apihelpers"
)

const (
	HEADER_API_KEY = "Api-Key"

	// answers above this size are treated as errors
	maxResponseBytes = 1 << 20
)

type ClientConfig struct {
	RootURL              string
	APIKey               string
	MTLSCertificatePaths *apihelpers.CertificatePaths
	Timeout              time.Duration
}

// RunHTTPcall posts payload as JSON to RootURL + pathname and decodes the JSON object answer.
// Payload and answer are never logged, they may contain medical data.
func (cConfig ClientConfig) RunHTTPcall(ctx context.Context, pathname string, payload interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	client, err := cConfig.newClient()
	if err != nil {
		slog.Error("Error creating http client with mTLS config", slog.String("error", err.Error()))
		return nil, err
	}

	url := cConfig.RootURL + pathname
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		slog.Error("unexpected error in preparing http request", slog.String("error", err.Error()))
		return nil, err
	}
	if cConfig.APIKey != "" {
		req.Header.Set(HEADER_API_KEY, cConfig.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		slog.Error("unexpected error in http call", slog.String("url", url), slog.String("error", err.Error()))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("http call returned error status", slog.String("url", url), slog.String("status", resp.Status))
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(respBody) > maxResponseBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", url, maxResponseBytes)
	}

	var res map[string]interface{}
	if err := json.Unmarshal(respBody, &res); err != nil {
		slog.Error("Error decoding response", slog.String("url", url), slog.String("error", err.Error()))
		return nil, err
	}
	return res, nil
}

func (cConfig ClientConfig) newClient() (*http.Client, error) {
	client := &http.Client{
		Timeout: cConfig.Timeout,
	}
	if cConfig.MTLSCertificatePaths == nil {
		return client, nil
	}

	tlsConfig, err := apihelpers.LoadClientTLSConfig(*cConfig.MTLSCertificatePaths)
	if err != nil {
		return nil, err
	}
	client.Transport = &http.Transport{
		TLSClientConfig: tlsConfig,
	}
	return client, nil
}
