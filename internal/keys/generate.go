package keys

import "fmt"

// ewoqPrivateKeyHex is the widely published "ewoq" test key. It is pre-funded
// on local and custom test networks and must never hold real funds.
const ewoqPrivateKeyHex = "56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027"

// TestKeys returns the well-known test keys, in reuse order.
func TestKeys() ([]*Key, error) {
	ewoq, err := FromHex(ewoqPrivateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to load test key: %w", err)
	}
	return []*Key{ewoq}, nil
}

// GenerateN returns n keys, reusing well-known test keys first and
// generating fresh ones beyond that. Result order is stable: test keys
// always occupy the leading slots.
func GenerateN(n int) ([]*Key, error) {
	if n <= 0 {
		return nil, nil
	}

	testKeys, err := TestKeys()
	if err != nil {
		return nil, err
	}

	out := make([]*Key, 0, n)
	for i := 0; i < n; i++ {
		if i < len(testKeys) {
			out = append(out, testKeys[i])
			continue
		}
		k, err := Generate()
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// Infos maps keys to their persisted document shapes.
func Infos(ks []*Key) []KeyInfo {
	infos := make([]KeyInfo, 0, len(ks))
	for _, k := range ks {
		infos = append(infos, k.Info())
	}
	return infos
}
