package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SignatureHeader is the transmission signature header; its presence is the
// structural precondition for attempting verification at all.
const SignatureHeader = "Paypal-Transmission-Sig"

const verifyPath = "/v1/notifications/verify-webhook-signature"

// Verifier checks webhook authenticity by delegating to PayPal's own
// verification endpoint, bound to one registered webhook id.
type Verifier struct {
	client    *Client
	webhookID string
}

func NewVerifier(client *Client, webhookID string) *Verifier {
	return &Verifier{client: client, webhookID: webhookID}
}

// VerifyWebhookSignature reports whether PayPal vouches for the event. The
// error return covers transport and protocol failures; callers must treat an
// error the same as a failed verification (fail closed), never as success.
func (v *Verifier) VerifyWebhookSignature(ctx context.Context, header http.Header, rawBody []byte) (bool, error) {
	reqBody := struct {
		AuthAlgo         string          `json:"auth_algo"`
		CertURL          string          `json:"cert_url"`
		TransmissionID   string          `json:"transmission_id"`
		TransmissionSig  string          `json:"transmission_sig"`
		TransmissionTime string          `json:"transmission_time"`
		WebhookID        string          `json:"webhook_id"`
		WebhookEvent     json.RawMessage `json:"webhook_event"`
	}{
		AuthAlgo:         header.Get("Paypal-Auth-Algo"),
		CertURL:          header.Get("Paypal-Cert-Url"),
		TransmissionID:   header.Get("Paypal-Transmission-Id"),
		TransmissionSig:  header.Get(SignatureHeader),
		TransmissionTime: header.Get("Paypal-Transmission-Time"),
		WebhookID:        v.webhookID,
		WebhookEvent:     json.RawMessage(rawBody),
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return false, fmt.Errorf("marshal verification request: %w", err)
	}

	var payload struct {
		VerificationStatus string `json:"verification_status"`
	}

	err = v.client.doJSON(ctx, "POST", verifyPath, bytes.NewReader(data), &payload)
	if err != nil {
		return false, fmt.Errorf("verify webhook signature: %w", err)
	}

	return payload.VerificationStatus == "SUCCESS", nil
}
