package coinbase

import (
	"fmt"
	"strconv"
	"strings"
)

// Event is the webhook envelope. Only the fields the reconciliation flow
// reads are mapped.
type Event struct {
	Event EventBody `json:"event"`
}

type EventBody struct {
	Data ChargeData `json:"data"`
}

type ChargeData struct {
	Code     string   `json:"code"` // external payment id
	Pricing  Pricing  `json:"pricing"`
	Metadata Metadata `json:"metadata"`
}

type Pricing struct {
	Local Money `json:"local"`
}

type Money struct {
	Amount string `json:"amount"`
}

type Metadata struct {
	// Custom is set by the client at charge creation as "<playerID>:<env>".
	Custom string `json:"custom"`
}

// SplitCustomMetadata parses the "<playerID>:<env>" tag.
func SplitCustomMetadata(custom string) (playerID uint64, env string, err error) {
	idStr, env, ok := strings.Cut(custom, ":")
	if !ok || idStr == "" || env == "" {
		return 0, "", fmt.Errorf("malformed custom metadata %q", custom)
	}

	playerID, err = strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse player id in metadata: %w", err)
	}

	return playerID, env, nil
}
