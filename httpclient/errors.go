package httpclient

import (
	"errors"
	"fmt"
	"time"
)

// ClientError represents the failures produced by the client pipeline.
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error
type ErrorType string

const (
	// NetworkError covers transport-level dispatch failures
	NetworkError ErrorType = "network"
	// TimeoutError marks an attempt that exceeded its time budget
	TimeoutError ErrorType = "timeout"
	// HTTPError marks a served non-2xx status
	HTTPError ErrorType = "http"
	// InvalidURLError marks an unusable request URL
	InvalidURLError ErrorType = "invalid_url"
	// InvalidResponseError marks a transport that reported success without a response
	InvalidResponseError ErrorType = "invalid_response"
	// EncodingError marks a request body that could not be serialized
	EncodingError ErrorType = "encoding"
	// DecodingError marks a response body that could not be parsed
	DecodingError ErrorType = "decoding"
	// NoDataError marks an absent payload where one was required
	NoDataError ErrorType = "no_data"
	// CacheError marks a failing cache store
	CacheError ErrorType = "cache"
	// RetryExhaustedError marks a policy that declined after its last attempt
	RetryExhaustedError ErrorType = "retry_exhausted"
	// ValidationError marks a malformed request descriptor
	ValidationError ErrorType = "validation"
	// InterceptorError marks a failing interceptor chain
	InterceptorError ErrorType = "interceptor"
	// CustomError covers free-form failures raised by custom components
	CustomError ErrorType = "custom"
)

// networkError represents transport-level errors
type networkError struct {
	message string
	wrapped error
}

func (e *networkError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("network error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("network error: %s", e.message)
}

func (e *networkError) Type() ErrorType {
	return NetworkError
}

func (e *networkError) Unwrap() error {
	return e.wrapped
}

// timeoutError represents an exceeded attempt time budget
type timeoutError struct {
	message string
	timeout time.Duration
	wrapped error
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (timeout: %v)", e.message, e.timeout)
}

func (e *timeoutError) Type() ErrorType {
	return TimeoutError
}

func (e *timeoutError) Unwrap() error {
	return e.wrapped
}

// httpError represents HTTP status-related errors
type httpError struct {
	message    string
	statusCode int
	body       []byte
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP error: %s (status: %d)", e.message, e.statusCode)
}

func (e *httpError) Type() ErrorType {
	return HTTPError
}

// StatusCode returns the served status.
func (e *httpError) StatusCode() int {
	return e.statusCode
}

// Body returns the raw error payload served alongside the status.
func (e *httpError) Body() []byte {
	return e.body
}

// invalidURLError represents an unusable request URL
type invalidURLError struct {
	rawURL  string
	wrapped error
}

func (e *invalidURLError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("invalid URL: %q: %v", e.rawURL, e.wrapped)
	}
	return fmt.Sprintf("invalid URL: %q", e.rawURL)
}

func (e *invalidURLError) Type() ErrorType {
	return InvalidURLError
}

func (e *invalidURLError) Unwrap() error {
	return e.wrapped
}

// invalidResponseError represents a transport that returned neither response nor error
type invalidResponseError struct {
	message string
}

func (e *invalidResponseError) Error() string {
	return fmt.Sprintf("invalid response: %s", e.message)
}

func (e *invalidResponseError) Type() ErrorType {
	return InvalidResponseError
}

// encodingError represents request body serialization failures
type encodingError struct {
	message string
	wrapped error
}

func (e *encodingError) Error() string {
	return fmt.Sprintf("encoding error: %s: %v", e.message, e.wrapped)
}

func (e *encodingError) Type() ErrorType {
	return EncodingError
}

func (e *encodingError) Unwrap() error {
	return e.wrapped
}

// decodingError represents response body parsing failures
type decodingError struct {
	message string
	wrapped error
}

func (e *decodingError) Error() string {
	return fmt.Sprintf("decoding error: %s: %v", e.message, e.wrapped)
}

func (e *decodingError) Type() ErrorType {
	return DecodingError
}

func (e *decodingError) Unwrap() error {
	return e.wrapped
}

// noDataError represents an absent payload where one was required
type noDataError struct {
	message string
}

func (e *noDataError) Error() string {
	return fmt.Sprintf("no data: %s", e.message)
}

func (e *noDataError) Type() ErrorType {
	return NoDataError
}

// cacheError represents failures inside a cache store
type cacheError struct {
	message string
	wrapped error
}

func (e *cacheError) Error() string {
	return fmt.Sprintf("cache error: %s: %v", e.message, e.wrapped)
}

func (e *cacheError) Type() ErrorType {
	return CacheError
}

func (e *cacheError) Unwrap() error {
	return e.wrapped
}

// retryExhaustedError summarizes a call whose policy declined after the
// final attempt. The default pipeline surfaces the last raw error instead;
// this type exists for consumers that want an explicit summary value.
type retryExhaustedError struct {
	attempts int
	wrapped  error
}

func (e *retryExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.attempts, e.wrapped)
}

func (e *retryExhaustedError) Type() ErrorType {
	return RetryExhaustedError
}

// Attempts returns the number of dispatches performed.
func (e *retryExhaustedError) Attempts() int {
	return e.attempts
}

func (e *retryExhaustedError) Unwrap() error {
	return e.wrapped
}

// validationError represents request validation errors
type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType {
	return ValidationError
}

// interceptorError represents interceptor-related errors
type interceptorError struct {
	message string
	wrapped error
	stage   string
}

func (e *interceptorError) Error() string {
	return fmt.Sprintf("interceptor error: %s (stage: %s): %v", e.message, e.stage, e.wrapped)
}

func (e *interceptorError) Type() ErrorType {
	return InterceptorError
}

func (e *interceptorError) Unwrap() error {
	return e.wrapped
}

// customError represents free-form failures raised by custom components
type customError struct {
	message string
	wrapped error
}

func (e *customError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *customError) Type() ErrorType {
	return CustomError
}

func (e *customError) Unwrap() error {
	return e.wrapped
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, wrapped error) ClientError {
	return &networkError{
		message: message,
		wrapped: wrapped,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, timeout time.Duration, wrapped error) ClientError {
	return &timeoutError{
		message: message,
		timeout: timeout,
		wrapped: wrapped,
	}
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(message string, statusCode int, body []byte) ClientError {
	return &httpError{
		message:    message,
		statusCode: statusCode,
		body:       body,
	}
}

// NewInvalidURLError creates a new invalid URL error
func NewInvalidURLError(rawURL string, wrapped error) ClientError {
	return &invalidURLError{
		rawURL:  rawURL,
		wrapped: wrapped,
	}
}

// NewInvalidResponseError creates a new invalid response error
func NewInvalidResponseError(message string) ClientError {
	return &invalidResponseError{
		message: message,
	}
}

// NewEncodingError creates a new encoding error
func NewEncodingError(message string, wrapped error) ClientError {
	return &encodingError{
		message: message,
		wrapped: wrapped,
	}
}

// NewDecodingError creates a new decoding error
func NewDecodingError(message string, wrapped error) ClientError {
	return &decodingError{
		message: message,
		wrapped: wrapped,
	}
}

// NewNoDataError creates a new no-data error
func NewNoDataError(message string) ClientError {
	return &noDataError{
		message: message,
	}
}

// NewCacheError creates a new cache error
func NewCacheError(message string, wrapped error) ClientError {
	return &cacheError{
		message: message,
		wrapped: wrapped,
	}
}

// NewRetryExhaustedError creates a retry exhaustion summary wrapping the
// last attempt's error
func NewRetryExhaustedError(attempts int, wrapped error) ClientError {
	return &retryExhaustedError{
		attempts: attempts,
		wrapped:  wrapped,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message, field string) ClientError {
	return &validationError{
		message: message,
		field:   field,
	}
}

// NewInterceptorError creates a new interceptor error
func NewInterceptorError(message, stage string, wrapped error) ClientError {
	return &interceptorError{
		message: message,
		wrapped: wrapped,
		stage:   stage,
	}
}

// NewCustomError creates a free-form client error
func NewCustomError(message string, wrapped error) ClientError {
	return &customError{
		message: message,
		wrapped: wrapped,
	}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// ErrorTypeOf returns the category of err, or CustomError for errors raised
// outside the client.
func ErrorTypeOf(err error) ErrorType {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type()
	}
	return CustomError
}

// IsHTTPStatusError checks if an error is an HTTP error with a specific status code
func IsHTTPStatusError(err error, statusCode int) bool {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode() == statusCode
	}
	return false
}

// HTTPStatusFromError returns the status carried by an HTTP error, or 0
// when err is not one.
func HTTPStatusFromError(err error) int {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}
	return 0
}

// IsSuccessStatus checks if a status code represents success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
