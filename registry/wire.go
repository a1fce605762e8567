package registry

import (
	"encoding/json"
	"fmt"
)

// ByteList is a byte slice that travels as a JSON array of numbers, the
// framing the registry write endpoint expects (encoding/json's default
// base64 framing is not part of the protocol).
type ByteList []byte

func (b ByteList) MarshalJSON() ([]byte, error) {
	ints := make([]uint16, len(b))
	for i, v := range b {
		ints[i] = uint16(v)
	}
	return json.Marshal(ints)
}

func (b *ByteList) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte list element %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// GetEntryResponse is the registry read reply: hex data and signature plus
// the entry's revision.
type GetEntryResponse struct {
	Data      string `json:"data"`
	Revision  uint64 `json:"revision"`
	Signature string `json:"signature"`
}

// SetEntryPublicKey is the owning key in a registry write request.
type SetEntryPublicKey struct {
	Algorithm string   `json:"algorithm"`
	Key       ByteList `json:"key"`
}

// SetEntryRequest is the registry write request body.
type SetEntryRequest struct {
	PublicKey SetEntryPublicKey `json:"publickey"`
	DataKey   string            `json:"datakey"`
	Revision  uint64            `json:"revision"`
	Data      ByteList          `json:"data"`
	Signature ByteList          `json:"signature"`
}
