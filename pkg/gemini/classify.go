package gemini

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrorKind is the stable failure taxonomy every provider error is mapped
// into before it leaves this package.
type ErrorKind string

const (
	// KindBillingUnavailable marks features that require a paid tier. The
	// controller reacts by disabling the feature for the rest of the process.
	KindBillingUnavailable ErrorKind = "billing_unavailable"
	// KindInvalidCredential means the API key is misconfigured.
	KindInvalidCredential ErrorKind = "invalid_credential"
	// KindQuotaExceeded is a transient rate or usage limit.
	KindQuotaExceeded ErrorKind = "quota_exceeded"
	KindUnknown       ErrorKind = "unknown"
)

// RequestContext records which operation produced the failure so the
// localized message can name it.
type RequestContext string

const (
	ContextChat  RequestContext = "chat"
	ContextImage RequestContext = "image"
	ContextVideo RequestContext = "video"
	ContextTitle RequestContext = "title"
)

// ClassifiedError wraps a raw provider error with a taxonomy kind and a
// localized user-facing message.
type ClassifiedError struct {
	Kind    ErrorKind
	Context RequestContext
	Message string
	cause   error
}

func (e *ClassifiedError) Error() string {
	return e.Message
}

func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// IsBilling reports whether err is a billing-classified failure.
func IsBilling(err error) bool {
	ce, ok := err.(*ClassifiedError)
	return ok && ce.Kind == KindBillingUnavailable
}

var kindSubstrings = []struct {
	kind     ErrorKind
	patterns []string
}{
	{KindBillingUnavailable, []string{"billed users", "billing"}},
	{KindInvalidCredential, []string{"api key not valid", "api_key_invalid", "invalid api key"}},
	{KindQuotaExceeded, []string{"quota", "resource_exhausted", "rate limit", "429"}},
}

// Classify maps a raw provider error onto the taxonomy by matching known
// substrings of its message. It only assumes the error has a message.
func Classify(err error, reqCtx RequestContext, lang Language) *ClassifiedError {
	if ce, ok := err.(*ClassifiedError); ok {
		return ce
	}

	lang = lang.normalize()
	raw := strings.ToLower(err.Error())

	kind := KindUnknown
	for _, entry := range kindSubstrings {
		for _, pattern := range entry.patterns {
			if strings.Contains(raw, pattern) {
				kind = entry.kind
				break
			}
		}
		if kind != KindUnknown {
			break
		}
	}

	log.Debug().
		Err(err).
		Str("kind", string(kind)).
		Str("context", string(reqCtx)).
		Msg("classified provider error")

	return &ClassifiedError{
		Kind:    kind,
		Context: reqCtx,
		Message: fmt.Sprintf(kindTemplates[lang][kind], contextNouns[lang][reqCtx]),
		cause:   err,
	}
}
