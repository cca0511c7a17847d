package alerts

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single webhook POST.
const DefaultTimeout = 10 * time.Second

// WebhookNotifier posts messages to a chat webhook that accepts embeds.
type WebhookNotifier struct {
	url    string
	secret string
	client *http.Client
}

// NewWebhookNotifier creates an embed webhook notifier.
// If secret is non-empty, requests are signed with HMAC-SHA256.
func NewWebhookNotifier(url, secret string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WebhookNotifier{
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

func (w *WebhookNotifier) Send(ctx context.Context, msg Message) Delivery {
	body, err := json.Marshal(msg)
	if err != nil {
		return Delivery{Notifier: w.Name(), Err: fmt.Errorf("marshal webhook payload: %w", err)}
	}
	return post(ctx, w.client, w.Name(), w.url, w.secret, body)
}

// post performs one JSON POST and reports only transport failures.
func post(ctx context.Context, client *http.Client, name, url, secret string, body []byte) Delivery {
	d := Delivery{Notifier: name}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		d.Err = fmt.Errorf("create %s request: %w", name, err)
		return d
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "billing-notify/1.0")

	if secret != "" {
		sig := computeHMAC(body, []byte(secret))
		req.Header.Set("X-Signature-256", "sha256="+sig)
	}

	resp, err := client.Do(req)
	if err != nil {
		d.Err = fmt.Errorf("send %s message: %w", name, err)
		return d
	}
	defer resp.Body.Close()

	d.StatusCode = resp.StatusCode
	return d
}

func computeHMAC(message, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
