package error

import "net/http"

// TransportError marks a failed send attempt against the messaging provider.
// The outbound message is persisted anyway; sends are best-effort.
type TransportError string

func (err TransportError) Error() string {
	return string(err)
}

func (err TransportError) ErrCode() string {
	return "TRANSPORT_ERROR"
}

func (err TransportError) StatusCode() int {
	return http.StatusBadGateway
}
