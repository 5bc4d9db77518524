package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yatrafest/reghub/internal/domain/registration"
)

// HTTPNotifier invokes the hosted mail function: POST the full stored
// record as JSON with the anon key as a bearer token. The function answers
// {message, to} on success and {error, details} on failure.
type HTTPNotifier struct {
	endpoint string
	anonKey  string
	client   *http.Client
}

func NewHTTPNotifier(endpoint, anonKey string) *HTTPNotifier {
	return &HTTPNotifier{
		endpoint: endpoint,
		anonKey:  anonKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (n *HTTPNotifier) SendRegistrationConfirmation(ctx context.Context, reg registration.Registration) (Result, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}

	req.Header.Set("Content-Type", "application/json")
	if n.anonKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.anonKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var fail struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}

		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &fail)

		if fail.Error != "" {
			return Result{}, fmt.Errorf("%w: %s (%s)", ErrRejected, fail.Error, fail.Details)
		}
		return Result{}, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var ok struct {
		Message string `json:"message"`
		To      string `json:"to"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
		// 200 with an unreadable body still counts as delivered
		return Result{Delivered: true}, nil
	}

	// the function reports its own disabled branch with a 200
	if ok.To == "" {
		return Result{Disabled: true}, nil
	}

	return Result{Delivered: true}, nil
}
