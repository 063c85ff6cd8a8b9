// Package api defines the splitsmart RPC surface: request and response
// messages, procedure names, and connect handlers and clients for the
// LedgerService and AuthService.
//
// Messages are plain Go structs carried as JSON over the Connect protocol.
// Money fields use decimal.Decimal and travel as decimal strings.
package api

import (
	"encoding/json"
	"fmt"
)

// Codec marshals messages as JSON. It registers under the "json" name, which
// replaces connect's default protobuf-JSON codec on handlers and sets the
// application/json content type on clients.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
