package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError carries an error code, an operator-facing message and a
// user-facing message that is safe to send back into the chat.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewValidationError reports malformed order input.
func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: "❌ Ogiltigt format. Använd: `order: spelnamn, pris, steam-namn, betalningsmetod`",
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewNotFoundError reports an unknown or expired order id.
func NewNotFoundError(orderID string) *AppError {
	return &AppError{
		Code:        "E110",
		Message:     fmt.Sprintf("order %s not found", orderID),
		UserMessage: "❌ Beställningen hittades inte eller har utgått.",
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewForbiddenError reports an actor touching someone else's order.
func NewForbiddenError(orderID string) *AppError {
	return &AppError{
		Code:        "E120",
		Message:     fmt.Sprintf("actor is not the creator of order %s", orderID),
		UserMessage: "❌ Du kan bara hantera dina egna beställningar.",
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewTransitionError reports an action that is not legal from the current status.
func NewTransitionError(msg string) *AppError {
	return &AppError{
		Code:        "E130",
		Message:     msg,
		UserMessage: "❌ Åtgärden är inte möjlig för beställningens nuvarande status.",
		Severity:    SeverityMedium,
		Retryable:   false,
	}
}

// NewStorageError reports a failure in the order store or archive.
func NewStorageError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("storage error: %s", underlyingMsg),
		UserMessage: "⚠️ Tillfälligt problem, försök igen senare.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewExternalAPIError reports a failure talking to an external service.
func NewExternalAPIError(apiName string, cause error) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     fmt.Sprintf("external API error: %s", apiName),
		UserMessage: "⚠️ Tjänsten är tillfälligt otillgänglig.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewRateLimitError reports a throttled user.
func NewRateLimitError(retryAfter int) *AppError {
	return &AppError{
		Code:        "E500",
		Message:     fmt.Sprintf("rate limit exceeded: retry after %d seconds", retryAfter),
		UserMessage: fmt.Sprintf("⏳ För många förfrågningar. Försök igen om %d sekunder.", retryAfter),
		Severity:    SeverityLow,
		Retryable:   false,
	}
}
