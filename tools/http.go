package tools

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 512

// CheckResponse returns an ErrToolFailed error for a non-2xx response,
// quoting the start of the body
func CheckResponse(name string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bs, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%w: %s returned %d: %s", ErrToolFailed, name, resp.StatusCode, strings.TrimSpace(string(bs)))
}
