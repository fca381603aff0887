package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// HexBytes renders byte slices as hex strings in JSON, the form keys and
// addresses travel over the API boundary.
type HexBytes []byte

func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

func (b HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(b))
}

func (b *HexBytes) UnmarshalJSON(dat []byte) error {
	var s string
	if err := json.Unmarshal(dat, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex bytes: %w", err)
	}
	*b = raw
	return nil
}
