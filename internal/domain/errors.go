package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Handlers translate any error implementing it without knowing the concrete type.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstream          = errors.New("upstream request failed")
	ErrGenerationParse   = errors.New("generation output could not be parsed")
	ErrEmptyGeneration   = errors.New("generation returned no content")
	ErrInvalidOutline    = errors.New("invalid outline")
	ErrNoPriorOutline    = errors.New("no prior outline")
	ErrNoIntegration     = errors.New("no wordpress integration")
	ErrPublish           = errors.New("publish failed")
	ErrMissingParameter  = errors.New("missing parameter")
	ErrProvider          = errors.New("payment provider error")
	ErrSignatureMismatch = errors.New("webhook signature verification failed")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string
	ResourceType string
	ResourceID   string
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// RateLimitedError is returned when a user exceeds the generation rate.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter.Round(time.Second))
}
func (e *RateLimitedError) StatusCode() int      { return http.StatusTooManyRequests }
func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// UpstreamError wraps a transport or provider failure of an outbound API. Message is the provider's own message.
type UpstreamError struct {
	Provider string
	Message  string
}

func (e *UpstreamError) Error() string        { return e.Message }
func (e *UpstreamError) StatusCode() int      { return http.StatusInternalServerError }
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// GenerationParseError means the outline response was not the expected JSON shape.
type GenerationParseError struct {
	Reason string
	Raw    string
}

func (e *GenerationParseError) Error() string {
	return fmt.Sprintf("could not parse outline: %s", e.Reason)
}
func (e *GenerationParseError) StatusCode() int      { return http.StatusInternalServerError }
func (e *GenerationParseError) Is(target error) bool { return target == ErrGenerationParse }

// EmptyGenerationError means the article completion contained no text.
type EmptyGenerationError struct{}

func (e *EmptyGenerationError) Error() string        { return "no content generated" }
func (e *EmptyGenerationError) StatusCode() int      { return http.StatusInternalServerError }
func (e *EmptyGenerationError) Is(target error) bool { return target == ErrEmptyGeneration }

// InvalidOutlineError rejects an article request before any upstream call.
type InvalidOutlineError struct {
	Message string
}

func (e *InvalidOutlineError) Error() string        { return e.Message }
func (e *InvalidOutlineError) StatusCode() int      { return http.StatusBadRequest }
func (e *InvalidOutlineError) Is(target error) bool { return target == ErrInvalidOutline }

// NoPriorOutlineError is returned when regeneration names no outline owned by the caller.
type NoPriorOutlineError struct{}

func (e *NoPriorOutlineError) Error() string        { return "no previous outline to regenerate from" }
func (e *NoPriorOutlineError) StatusCode() int      { return http.StatusBadRequest }
func (e *NoPriorOutlineError) Is(target error) bool { return target == ErrNoPriorOutline }

// NoIntegrationError is returned when the user has not connected a WordPress site.
type NoIntegrationError struct{}

func (e *NoIntegrationError) Error() string        { return "no WordPress integration found" }
func (e *NoIntegrationError) StatusCode() int      { return http.StatusBadRequest }
func (e *NoIntegrationError) Is(target error) bool { return target == ErrNoIntegration }

// PublishError carries a non-2xx WordPress response verbatim.
type PublishError struct {
	Status int
	Body   string
}

func (e *PublishError) Error() string { return e.Body }

// StatusCode mirrors the upstream status so the caller sees what WordPress said.
func (e *PublishError) StatusCode() int {
	if e.Status < 400 {
		return http.StatusBadGateway
	}
	return e.Status
}
func (e *PublishError) Is(target error) bool { return target == ErrPublish }

// MissingParameterError names a required checkout parameter that was not supplied.
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string        { return fmt.Sprintf("missing %s", e.Param) }
func (e *MissingParameterError) StatusCode() int      { return http.StatusBadRequest }
func (e *MissingParameterError) Is(target error) bool { return target == ErrMissingParameter }

// ProviderError wraps a payment provider failure.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string        { return e.Message }
func (e *ProviderError) StatusCode() int      { return http.StatusInternalServerError }
func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// SignatureVerificationError rejects a webhook whose signature does not match.
type SignatureVerificationError struct {
	Message string
}

func (e *SignatureVerificationError) Error() string {
	return fmt.Sprintf("webhook error: %s", e.Message)
}
func (e *SignatureVerificationError) StatusCode() int      { return http.StatusBadRequest }
func (e *SignatureVerificationError) Is(target error) bool { return target == ErrSignatureMismatch }
