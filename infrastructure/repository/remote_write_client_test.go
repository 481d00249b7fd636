package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewRemoteWriteClient(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		timeout     time.Duration
		authConfig  *AuthConfig
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid configuration",
			url:     "http://localhost:9090/api/v1/write",
			timeout: 30 * time.Second,
			wantErr: false,
		},
		{
			name:        "empty URL",
			url:         "",
			timeout:     30 * time.Second,
			wantErr:     true,
			errContains: "remote write URL is required",
		},
		{
			name:    "with basic auth",
			url:     "http://localhost:9090/api/v1/write",
			timeout: 30 * time.Second,
			authConfig: &AuthConfig{
				Username: "user",
				Password: "pass",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewRemoteWriteClient(tt.url, tt.timeout, tt.authConfig)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want error containing %v", err, tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if client == nil {
					t.Errorf("expected client but got nil")
				}
			}
		})
	}
}

func TestSendGaugeMetric(t *testing.T) {
	tests := []struct {
		name           string
		metricName     string
		value          float64
		labels         map[string]string
		serverResponse int
		serverError    bool
		wantErr        bool
		errContains    string
		checkRetry     bool
		retryCount     int
	}{
		{
			name:           "successful send",
			metricName:     "test_metric",
			value:          42.0,
			labels:         map[string]string{"host": "test-host"},
			serverResponse: http.StatusOK,
			wantErr:        false,
		},
		{
			name:           "server error with retry",
			metricName:     "test_metric",
			value:          42.0,
			labels:         map[string]string{"host": "test-host"},
			serverResponse: http.StatusInternalServerError,
			wantErr:        true,
			errContains:    "status 500",
			checkRetry:     true,
			retryCount:     4, // initial + 3 retries
		},
		{
			name:           "client error no retry",
			metricName:     "test_metric",
			value:          42.0,
			labels:         map[string]string{"host": "test-host"},
			serverResponse: http.StatusBadRequest,
			wantErr:        true,
			errContains:    "status 400",
			checkRetry:     true,
			retryCount:     1, // no retry for client errors
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestCount := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requestCount++

				// Check headers
				if r.Header.Get("Content-Type") != "application/x-protobuf" {
					t.Errorf("unexpected Content-Type: %s", r.Header.Get("Content-Type"))
				}
				if r.Header.Get("Content-Encoding") != "snappy" {
					t.Errorf("unexpected Content-Encoding: %s", r.Header.Get("Content-Encoding"))
				}

				if tt.serverError {
					http.Error(w, "server error", tt.serverResponse)
					return
				}

				w.WriteHeader(tt.serverResponse)
			}))
			defer server.Close()

			client, err := NewRemoteWriteClient(server.URL, 5*time.Second, nil)
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			ctx := context.Background()
			err = client.SendGaugeMetric(ctx, tt.metricName, tt.value, tt.labels)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want error containing %v", err, tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}

			if tt.checkRetry && requestCount != tt.retryCount {
				t.Errorf("expected %d requests, got %d", tt.retryCount, requestCount)
			}
		})
	}
}

func TestAddAuthentication(t *testing.T) {
	tests := []struct {
		name        string
		authConfig  *AuthConfig
		wantHeader  string
		wantValue   string
		wantErr     bool
		errContains string
	}{
		{
			name:       "no authentication",
			authConfig: nil,
			wantErr:    false,
		},
		{
			name: "basic auth valid",
			authConfig: &AuthConfig{
				Username: "user",
				Password: "pass",
			},
			wantHeader: "Authorization",
			wantValue:  "Basic dXNlcjpwYXNz", // base64("user:pass")
			wantErr:    false,
		},
		{
			name: "basic auth missing username",
			authConfig: &AuthConfig{
				Password: "pass",
			},
			wantErr:     true,
			errContains: "basic auth requires username and password",
		},
		{
			name: "basic auth missing password",
			authConfig: &AuthConfig{
				Username: "user",
			},
			wantErr:     true,
			errContains: "basic auth requires username and password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &RemoteWriteClient{
				authConfig: tt.authConfig,
			}

			req, _ := http.NewRequest("POST", "http://example.com", nil)
			err := client.addAuthentication(req)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want error containing %v", err, tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if tt.wantHeader != "" {
					got := req.Header.Get(tt.wantHeader)
					if got != tt.wantValue {
						t.Errorf("header %s = %v, want %v", tt.wantHeader, got, tt.wantValue)
					}
				}
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "500 server error",
			err:  fmt.Errorf("remote write failed with status 500: server error"),
			want: true,
		},
		{
			name: "502 bad gateway",
			err:  fmt.Errorf("remote write failed with status 502: bad gateway"),
			want: true,
		},
		{
			name: "503 service unavailable",
			err:  fmt.Errorf("remote write failed with status 503: service unavailable"),
			want: true,
		},
		{
			name: "504 gateway timeout",
			err:  fmt.Errorf("remote write failed with status 504: gateway timeout"),
			want: true,
		},
		{
			name: "400 bad request",
			err:  fmt.Errorf("remote write failed with status 400: bad request"),
			want: false,
		},
		{
			name: "401 unauthorized",
			err:  fmt.Errorf("remote write failed with status 401: unauthorized"),
			want: false,
		},
		{
			name: "403 forbidden",
			err:  fmt.Errorf("remote write failed with status 403: forbidden"),
			want: false,
		},
		{
			name: "404 not found",
			err:  fmt.Errorf("remote write failed with status 404: not found"),
			want: false,
		},
		{
			name: "connection refused",
			err:  fmt.Errorf("connection refused"),
			want: true,
		},
		{
			name: "no such host",
			err:  fmt.Errorf("no such host"),
			want: true,
		},
		{
			name: "timeout error",
			err:  fmt.Errorf("request timeout"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isRetryableError(tt.err)
			if got != tt.want {
				t.Errorf("isRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSendGaugeMetrics_Batch(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if r.Header.Get("X-Prometheus-Remote-Write-Version") != "0.1.0" {
			t.Errorf("unexpected remote write version: %s", r.Header.Get("X-Prometheus-Remote-Write-Version"))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewRemoteWriteClient(server.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	now := time.Now().UnixMilli()
	samples := []GaugeSample{
		{MetricName: "apitrack_api_calls", Value: 12, Labels: map[string]string{"api": "payments", "host": "h1"}, Timestamp: now},
		{MetricName: "apitrack_api_duration_seconds_mean", Value: 0.42, Labels: map[string]string{"api": "payments", "host": "h1"}, Timestamp: now},
	}

	if err := client.SendGaugeMetrics(context.Background(), samples); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both series fit in a single request
	if requestCount != 1 {
		t.Errorf("expected 1 request, got %d", requestCount)
	}
}

func TestSendGaugeMetrics_Empty(t *testing.T) {
	client, err := NewRemoteWriteClient("http://localhost:9090/api/v1/write", time.Second, nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if err := client.SendGaugeMetrics(context.Background(), nil); err != nil {
		t.Errorf("sending no samples should be a no-op, got %v", err)
	}
}
