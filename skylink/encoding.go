package skylink

import "encoding/base32"

func newBase32Encoding() *base32.Encoding {
	return base32.NewEncoding(base32Alphabet).WithPadding(base32.NoPadding)
}
