package telegram

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nguyencaoquydieu/TelegramClient/pkg/httpclient"
)

// PromptCodeProvider reads the login code from an interactive terminal.
type PromptCodeProvider struct {
	In  io.Reader
	Out io.Writer
}

func (p *PromptCodeProvider) RequestCode(_ context.Context, phone string) (string, error) {
	fmt.Fprintf(p.Out, "Enter login code for %s: ", phone)

	code, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read login code: %w", err)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty login code for %s", phone)
	}

	return code, nil
}

// WebhookCodeProvider fetches the login code from an external endpoint:
// POST {"phone": ...} -> {"code": ...}. This is how a detached front end
// (or an operator tool) supplies codes to a headless bridge.
type WebhookCodeProvider struct {
	URL    string
	Client httpclient.HTTPClient
}

type codeRequest struct {
	Phone string `json:"phone"`
}

type codeResponse struct {
	Code string `json:"code"`
}

func (w *WebhookCodeProvider) RequestCode(ctx context.Context, phone string) (string, error) {
	body, err := json.Marshal(codeRequest{Phone: phone})
	if err != nil {
		return "", err
	}

	headers := map[string]string{"Content-Type": "application/json"}
	resp, err := w.Client.Post(ctx, w.URL, bytes.NewReader(body), headers)
	if err != nil {
		return "", fmt.Errorf("code webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("code webhook returned status %d", resp.StatusCode)
	}

	var decoded codeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode code webhook response: %w", err)
	}

	if decoded.Code == "" {
		return "", fmt.Errorf("code webhook returned empty code for %s", phone)
	}

	return decoded.Code, nil
}
