package error

import "net/http"

// StoreUnavailableError marks transient backing-store failures. Callers may
// retry; the core never retries on its own.
type StoreUnavailableError string

func (err StoreUnavailableError) Error() string {
	return string(err)
}

func (err StoreUnavailableError) ErrCode() string {
	return "STORE_UNAVAILABLE"
}

func (err StoreUnavailableError) StatusCode() int {
	return http.StatusServiceUnavailable
}
