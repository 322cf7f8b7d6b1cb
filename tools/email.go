package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const emailFrom = "Amigo Secreto <no-reply@resend.dev>"

// SendEmail envia um email transacional via Resend API.
// Uso é sempre best-effort: quem chama dispara em goroutine e só loga a
// falha, nunca devolve erro pro usuário.
func SendEmail(ctx context.Context, to string, subject string, html string) error {
	apiKey := strings.TrimSpace(os.Getenv("RESEND_API_KEY"))
	if apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not set")
	}

	reqBody := map[string]any{
		"from":    emailFrom,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}

	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend api error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
