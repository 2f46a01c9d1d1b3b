package httpcache

import (
	"bufio"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httputil"
)

const prefix = "---HTTP-RESPONSE---\n"

// Serialize captures the full response (status line, headers, body) in
// HTTP/1.1 wire form. The response body is restored on the passed response.
func Serialize(resp *http.Response) ([]byte, error) {
	b, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return nil, err
	}

	return append([]byte(prefix), b...), nil
}

// Deserialize reconstructs a response captured by Serialize
func Deserialize(b []byte) (*http.Response, error) {
	if len(b) < len(prefix) || string(b[:len(prefix)]) != prefix {
		return nil, fmt.Errorf("invalid serialized response: missing %q prefix", prefix)
	}

	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(b[len(prefix):])), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize response: %w", err)
	}

	return resp, nil
}
