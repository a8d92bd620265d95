package authflow

import "errors"

var (
	// ErrDuplicateAttempt indicates that an attempt was rejected because another one
	// was already in progress
	ErrDuplicateAttempt = errors.New("flickr authorization already in progress")
	// ErrTransport indicates that a request got no response, or a non-2xx response
	ErrTransport = errors.New("transport failure")
	// ErrApplicationStatus indicates that Flickr responded successfully at the HTTP
	// level but reported a failure in the response body
	ErrApplicationStatus = errors.New("flickr reported failure")
	// ErrUserDeclined indicates that the user declined or cancelled a prompt
	ErrUserDeclined = errors.New("user declined")
	// ErrMalformedResponse indicates that a response body was missing fields we need
	ErrMalformedResponse = errors.New("malformed response")
	// ErrSigning indicates that a request could not be signed
	ErrSigning = errors.New("failed to sign request")
	// ErrStore indicates that credentials could not be written to the settings store
	ErrStore = errors.New("settings store failure")
	// ErrCanceled indicates that the attempt's context was canceled or timed out
	ErrCanceled = errors.New("authorization canceled")
)
