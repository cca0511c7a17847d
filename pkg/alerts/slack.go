package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SlackNotifier renders messages as Slack incoming-webhook attachments.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a Slack webhook notifier.
func NewSlackNotifier(webhookURL string, timeout time.Duration) *SlackNotifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SlackNotifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *SlackNotifier) Name() string { return "slack" }

func (s *SlackNotifier) Send(ctx context.Context, msg Message) Delivery {
	body, err := json.Marshal(ToSlack(msg))
	if err != nil {
		return Delivery{Notifier: s.Name(), Err: fmt.Errorf("marshal slack payload: %w", err)}
	}
	return post(ctx, s.client, s.Name(), s.webhookURL, "", body)
}

// ToSlack converts an embed message into the Slack attachment layout.
func ToSlack(msg Message) SlackPayload {
	payload := SlackPayload{
		Username: msg.Username,
		IconURL:  msg.AvatarURL,
	}
	for _, e := range msg.Embeds {
		att := SlackAttachment{
			Color:  fmt.Sprintf("#%06x", e.Color),
			Title:  e.Title,
			Text:   e.Description,
			Footer: "AWS Billing",
			Ts:     time.Now().Unix(),
		}
		for _, f := range e.Fields {
			att.Fields = append(att.Fields, SlackField{Title: f.Name, Value: f.Value, Short: f.Inline})
		}
		payload.Attachments = append(payload.Attachments, att)
	}
	return payload
}

type SlackPayload struct {
	Username    string            `json:"username,omitempty"`
	IconURL     string            `json:"icon_url,omitempty"`
	Attachments []SlackAttachment `json:"attachments"`
}

type SlackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text"`
	Fields []SlackField `json:"fields"`
	Footer string       `json:"footer"`
	Ts     int64        `json:"ts"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}
