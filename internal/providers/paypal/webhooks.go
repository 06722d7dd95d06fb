package paypal

import (
	"context"
	"fmt"
)

const webhooksPath = "/v1/notifications/webhooks"

type webhook struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ResolveWebhookID looks up the id of the webhook registered for callbackURL.
// Signature verification requires the id PayPal assigned at registration
// time, so this runs once during bootstrap and the result is held for the
// process lifetime.
func (c *Client) ResolveWebhookID(ctx context.Context, callbackURL string) (string, error) {
	var payload struct {
		Webhooks []webhook `json:"webhooks"`
	}

	err := c.doJSON(ctx, "GET", webhooksPath, nil, &payload)
	if err != nil {
		return "", fmt.Errorf("list webhooks: %w", err)
	}

	for _, wh := range payload.Webhooks {
		if wh.URL == callbackURL {
			return wh.ID, nil
		}
	}

	return "", fmt.Errorf("no webhook registered for %s", callbackURL)
}
