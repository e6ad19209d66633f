// Package lemonsqueezy implements the inbound webhook contract with
// Lemon Squeezy: the signed-delivery envelope and the HMAC verification that
// gates all processing of it.
package lemonsqueezy

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
)

// SignatureHeader carries the lowercase-hex HMAC-SHA256 digest of the raw
// request body.
const SignatureHeader = "X-Signature"

// Event names this service acts on. Anything else is acknowledged and
// ignored.
const (
	EventSubscriptionCreated   = "subscription_created"
	EventOrderCreated          = "order_created"
	EventSubscriptionCancelled = "subscription_cancelled"
	EventSubscriptionExpired   = "subscription_expired"
)

// WebhookEvent is the delivery envelope. Only the fields this service reads
// are declared; the full payload is preserved separately for the audit trail.
type WebhookEvent struct {
	Meta Meta       `json:"meta"`
	Data ObjectData `json:"data"`
}

type Meta struct {
	EventName  string     `json:"event_name"`
	CustomData CustomData `json:"custom_data"`
}

// CustomData is the passthrough metadata attached at checkout time. UserID is
// absent on test and sandbox deliveries.
type CustomData struct {
	UserID string `json:"user_id"`
}

type ObjectData struct {
	ID         string     `json:"id"`
	Attributes Attributes `json:"attributes"`
}

type Attributes struct {
	VariantID FlexID `json:"variant_id"`
}

// FlexID is an identifier Lemon Squeezy serializes sometimes as a JSON number
// and sometimes as a string. It decodes either form to its string value.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string {
	return string(f)
}

// IsCreation reports whether the event grants an entitlement
func (e *WebhookEvent) IsCreation() bool {
	return e.Meta.EventName == EventSubscriptionCreated || e.Meta.EventName == EventOrderCreated
}

// IsCancellation reports whether the event revokes an entitlement
func (e *WebhookEvent) IsCancellation() bool {
	return e.Meta.EventName == EventSubscriptionCancelled || e.Meta.EventName == EventSubscriptionExpired
}

// UserID returns the checkout-time user id, empty when absent
func (e *WebhookEvent) UserID() string {
	return e.Meta.CustomData.UserID
}

// Sign computes the lowercase-hex HMAC-SHA256 digest of body under secret.
// Used by outbound tests and tooling; the provider computes the same digest
// on its side.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the received signature header against the digest of
// the raw, untouched request body. The comparison runs through hmac.Equal,
// which is constant-time; a missing or undecodable header fails the same way
// a wrong digest does.
func VerifySignature(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}
	received, err := hex.DecodeString(header)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), received)
}

// ParseEvent decodes a verified raw body into the envelope. The body must be
// the exact bytes the signature was verified over. A payload without an
// event name has no meaning to this service and fails closed.
func ParseEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if event.Meta.EventName == "" {
		return nil, fmt.Errorf("webhook payload missing meta.event_name")
	}
	return &event, nil
}

// CheckoutURL builds the hosted-checkout URL for a variant with the user id
// embedded as custom data, so the resulting webhook can be attributed.
func CheckoutURL(base, userID, email string) string {
	q := url.Values{}
	q.Set("checkout[custom][user_id]", userID)
	if email != "" {
		q.Set("checkout[email]", email)
	}
	return base + "?" + q.Encode()
}
