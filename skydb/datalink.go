package skydb

import (
	"fmt"

	"github.com/skynetkit/skydb/registry"
	"github.com/skynetkit/skydb/skylink"
)

// dataLinkEncoding tags the two wire forms a registry entry may use to
// carry a data link.
type dataLinkEncoding int

const (
	// rawBinaryEncoding is the modern form: the 34 raw skylink bytes.
	rawBinaryEncoding dataLinkEncoding = iota + 1
	// legacyTextEncoding is the pre-binary form: the 46-character base64
	// skylink string stored as UTF-8 bytes.
	legacyTextEncoding
)

// classifyDataLink decides which encoding entry data uses, by the only
// discriminator the wire carries: length.
func classifyDataLink(data []byte) (dataLinkEncoding, error) {
	switch len(data) {
	case skylink.RawSize:
		return rawBinaryEncoding, nil
	case skylink.Base64Size:
		return legacyTextEncoding, nil
	default:
		return 0, registry.NewError(registry.KindDecode, "SKY-DEC-511", fmt.Sprintf(
			"entry data of length %d is not a skylink in any known encoding", len(data)))
	}
}

// decodeDataLink decodes entry data into the skylink it carries.
func decodeDataLink(data []byte) (skylink.Skylink, error) {
	enc, err := classifyDataLink(data)
	if err != nil {
		return skylink.Skylink{}, err
	}
	switch enc {
	case rawBinaryEncoding:
		link, err := skylink.FromBytes(data)
		if err != nil {
			return skylink.Skylink{}, registry.WrapError(registry.KindDecode, "SKY-DEC-512",
				"entry data is not a raw skylink", err)
		}
		return link, nil
	case legacyTextEncoding:
		link, err := skylink.Parse(string(data))
		if err != nil {
			return skylink.Skylink{}, registry.WrapError(registry.KindDecode, "SKY-DEC-513",
				"entry data is not a legacy text skylink", err)
		}
		return link, nil
	default:
		return skylink.Skylink{}, registry.NewError(registry.KindInternal, "SKY-INT-902",
			"unreachable data link encoding")
	}
}

// parseCachedDataLink validates a caller-supplied cached link hint.
func parseCachedDataLink(cached string) (skylink.Skylink, bool, error) {
	if cached == "" {
		return skylink.Skylink{}, false, nil
	}
	link, err := skylink.Parse(cached)
	if err != nil {
		return skylink.Skylink{}, false, registry.WrapError(registry.KindValidation, "SKY-VAL-022",
			fmt.Sprintf("cached data link %q is not a valid skylink", cached), err)
	}
	return link, true, nil
}
