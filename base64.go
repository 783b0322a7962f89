package taul

import "encoding/base64"

// EncodeBase64 encodes data as standard Base64 with padding, matching the
// original implementation's encode_base64 (S5).
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes standard Base64 text, accepting input with or
// without its trailing "=" padding, mirroring the original implementation's
// decode_base64. It returns ok=false for malformed input instead of an
// error, since the original reports failure as an empty optional rather
// than an exception.
func DecodeBase64(s string) (data []byte, ok bool) {
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, true
	}
	if data, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return data, true
	}
	return nil, false
}
