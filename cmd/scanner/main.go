// Command scanner runs a kiosk-side scan loop: it reads raw credential
// payloads from a capture device attached to stdin (keyboard-wedge QR
// readers emit one line per scan) and submits them to the check-in API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/api/dto"
	"github.com/spec-kit/checkin-service/internal/config"
	"github.com/spec-kit/checkin-service/internal/observability"
	"github.com/spec-kit/checkin-service/internal/scanner"
	"github.com/spec-kit/checkin-service/internal/service"
)

func main() {
	apiURL := flag.String("api", "http://127.0.0.1:8080", "check-in API base URL")
	token := flag.String("token", os.Getenv("SCANNER_STAFF_TOKEN"), "staff session token")
	cooldown := flag.Duration("cooldown", 2*time.Second, "pause after each result before the next scan")
	flag.Parse()

	if *token == "" {
		log.Fatal("staff session token required (-token or SCANNER_STAFF_TOKEN)")
	}

	logger, err := observability.NewLogger(config.LoggerConfig{Level: os.Getenv("LOG_LEVEL")})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	device := scanner.NewStdinDevice(os.Stdin)
	defer device.Close()

	processor := &httpProcessor{
		baseURL: *apiURL,
		token:   *token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}

	orchestrator := scanner.NewOrchestrator(device, processor, "", *cooldown, printResult, logger)
	if err := orchestrator.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("scan loop failed", zap.Error(err))
	}
}

func printResult(result *service.ScanResult, err error) {
	if err != nil {
		fmt.Printf("!! storage unavailable, re-scan to retry: %v\n", err)
		return
	}
	marker := "--"
	if result.Success() {
		marker = "OK"
	}
	fmt.Printf("%s [%s] %s\n", marker, result.Status, result.Message)
}

// httpProcessor implements service.ScanProcessor against the /scans
// endpoint. The scanner identity comes from the staff token, so the local
// scannerID argument is unused.
type httpProcessor struct {
	baseURL string
	token   string
	client  *http.Client
}

func (p *httpProcessor) ProcessScan(ctx context.Context, payload, _ string) (*service.ScanResult, error) {
	body, err := json.Marshal(dto.ScanRequest{Payload: payload})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/scans", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("check-in API unavailable: %s", resp.Status)
	}

	var envelope struct {
		Data dto.ScanResponse `json:"data"`
		Err  *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.Err != nil {
		return nil, fmt.Errorf("%s: %s", envelope.Err.Code, envelope.Err.Message)
	}

	return &service.ScanResult{
		Status:  service.ScanStatus(envelope.Data.Status),
		Day:     envelope.Data.Day,
		Message: envelope.Data.Message,
	}, nil
}
