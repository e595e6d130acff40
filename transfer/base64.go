package transfer

import "encoding/base64"

// base64Decode decodes standard base64, tolerating input that arrives
// without padding, which some mailers emit.
func base64Decode(s string) ([]byte, error) {
	out, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return out, nil
	}

	if len(s)%4 != 0 {
		if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
			return raw, nil
		}
	}

	return nil, err
}
