package alerts

import "context"

// AlertLevel classifies spend against a budget.
type AlertLevel string

const (
	AlertFree         AlertLevel = "free"          // Nothing billed
	AlertWithinBudget AlertLevel = "within_budget" // Spend below the limit
	AlertOverBudget   AlertLevel = "over_budget"   // Spend at or above the limit
)

// Color returns the embed color for the level.
func (l AlertLevel) Color() int {
	switch l {
	case AlertFree:
		return 0x1ABC9C
	case AlertWithinBudget:
		return 0x3498DB
	default:
		return 0xE74C3C
	}
}

// DefaultMessage returns the English status text for the level.
func (l AlertLevel) DefaultMessage() string {
	switch l {
	case AlertFree:
		return "no charges"
	case AlertWithinBudget:
		return "within budget"
	default:
		return "budget exceeded"
	}
}

// Message is a chat-webhook document with rich embeds.
type Message struct {
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url"`
	Embeds    []Embed `json:"embeds"`
}

// Embed is a rich card inside a Message.
type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       int     `json:"color"`
	Fields      []Field `json:"fields"`
}

// Field is a labeled section of an Embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Delivery is the outcome of a single Send.
// Err is set only for transport-level failures; the response status is
// recorded but never interpreted.
type Delivery struct {
	Notifier   string `json:"notifier"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

// Delivered reports whether the request reached the endpoint.
func (d Delivery) Delivered() bool { return d.Err == nil }

// Notifier posts messages to external systems.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send posts msg once. Failures are reported in the returned Delivery.
	Send(ctx context.Context, msg Message) Delivery
}
