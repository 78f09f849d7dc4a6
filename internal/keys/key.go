// Package keys generates and encodes the seed key material for a cluster.
//
// Key generation reuses well-known test keys first so that local and test
// clusters are reproducible, and generates fresh keys beyond that. Only the
// output shape matters to the rest of the system: a KeyInfo document with a
// CB58-encoded private key and derived addresses.
package keys

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // protocol-mandated digest
	"golang.org/x/crypto/sha3"

	"github.com/quorumlabs/nodeops/internal/errdefs"
)

// privateKeyPrefix prefixes every CB58-encoded private key.
const privateKeyPrefix = "PrivateKey-"

// checksumLen is the number of trailing SHA-256 bytes appended by CB58.
const checksumLen = 4

// Key is a secp256k1 private key.
type Key struct {
	priv *secp256k1.PrivateKey
}

// KeyInfo is the persisted document shape of one generated key.
type KeyInfo struct {
	PrivateKey    string `yaml:"private_key" json:"private_key"`
	PrivateKeyHex string `yaml:"private_key_hex" json:"private_key_hex"`
	ShortAddress  string `yaml:"short_address" json:"short_address"`
	EthAddress    string `yaml:"eth_address" json:"eth_address"`
}

// Generate creates a fresh random key.
func Generate() (*Key, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &Key{priv: priv}, nil
}

// FromHex loads a key from its 32-byte hex encoding.
func FromHex(s string) (*Key, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errdefs.InvalidInputf("invalid private key hex: %v", err)
	}
	if len(raw) != 32 {
		return nil, errdefs.InvalidInputf("private key must be 32 bytes (got %d)", len(raw))
	}
	return &Key{priv: secp256k1.PrivKeyFromBytes(raw)}, nil
}

// FromEncoded loads a key from its "PrivateKey-" CB58 encoding.
func FromEncoded(enc string) (*Key, error) {
	raw, err := decodeCB58(strings.TrimPrefix(enc, privateKeyPrefix))
	if err != nil {
		return nil, err
	}
	if len(raw) != 32 {
		return nil, errdefs.InvalidInputf("private key must be 32 bytes (got %d)", len(raw))
	}
	return &Key{priv: secp256k1.PrivKeyFromBytes(raw)}, nil
}

// Encoded returns the "PrivateKey-" CB58 encoding of the key.
func (k *Key) Encoded() string {
	return privateKeyPrefix + encodeCB58(k.priv.Serialize())
}

// Hex returns the raw hex encoding of the key.
func (k *Key) Hex() string {
	return hex.EncodeToString(k.priv.Serialize())
}

// EthAddress derives the EVM address (EIP-55 checksummed).
func (k *Key) EthAddress() string {
	pub := k.priv.PubKey().SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(pub[1:]) // drop the 0x04 encoding prefix
	sum := h.Sum(nil)
	return checksumAddress(sum[12:])
}

// ShortAddress derives the CB58-encoded ripemd160(sha256(pubkey)) address.
func (k *Key) ShortAddress() string {
	sha := sha256.Sum256(k.priv.PubKey().SerializeCompressed())
	r := ripemd160.New()
	r.Write(sha[:])
	return encodeCB58(r.Sum(nil))
}

// Info returns the persisted document shape of the key.
func (k *Key) Info() KeyInfo {
	return KeyInfo{
		PrivateKey:    k.Encoded(),
		PrivateKeyHex: k.Hex(),
		ShortAddress:  k.ShortAddress(),
		EthAddress:    k.EthAddress(),
	}
}

// encodeCB58 encodes raw bytes as base58 with a 4-byte SHA-256 checksum.
func encodeCB58(raw []byte) string {
	sum := sha256.Sum256(raw)
	return base58.Encode(append(append([]byte{}, raw...), sum[len(sum)-checksumLen:]...))
}

// decodeCB58 reverses encodeCB58, validating the checksum.
func decodeCB58(enc string) ([]byte, error) {
	decoded, err := base58.Decode(enc)
	if err != nil {
		return nil, &errdefs.DecodeError{Stage: "base58", Err: err}
	}
	if len(decoded) < checksumLen {
		return nil, &errdefs.DecodeError{Stage: "base58", Err: fmt.Errorf("payload too short (%d bytes)", len(decoded))}
	}
	raw := decoded[:len(decoded)-checksumLen]
	sum := sha256.Sum256(raw)
	if !bytes.Equal(decoded[len(raw):], sum[len(sum)-checksumLen:]) {
		return nil, &errdefs.DecodeError{Stage: "base58", Err: fmt.Errorf("checksum mismatch")}
	}
	return raw, nil
}

// checksumAddress formats a 20-byte address per EIP-55.
func checksumAddress(addr []byte) string {
	lower := hex.EncodeToString(addr)
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	sum := h.Sum(nil)

	out := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' {
			nibble := sum[i/2]
			if i%2 == 0 {
				nibble >>= 4
			}
			if nibble&0x0f >= 8 {
				c = c - 'a' + 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out)
}
