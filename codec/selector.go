package codec

import (
	"golang.org/x/crypto/sha3"
)

// Selector returns the 4 byte function selector of a signature. Human readable signatures
// are canonicalized first.
func Selector(c Codec, signature string) ([4]byte, error) {
	var selector [4]byte

	sig, err := c.ParseFunctionSignature(signature)
	if err != nil {
		return selector, err
	}

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig.String()))
	copy(selector[:], h.Sum(nil))

	return selector, nil
}
