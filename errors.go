package xclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrorKind is the closed set of failure classes surfaced to callers.
type ErrorKind int

const (
	KindNetwork        ErrorKind = iota // transport, HTTP or unclassified GraphQL failure
	KindValidation                      // rejected locally, no request sent
	KindAuthentication                  // backend reported an unauthenticated caller
	KindNotFound                        // requested entity does not exist
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	default:
		return "network"
	}
}

var (
	ErrMissingCredential = &Error{Kind: KindValidation, Message: "Google token not found"}
	ErrMissingTarget     = &Error{Kind: KindValidation, Message: "target user is missing"}
	ErrEmptyContent      = &Error{Kind: KindValidation, Message: "Please enter some content to Tweet"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
)

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Code returns extensions.code, if any.
func (e GraphQLError) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// Error is the single error type produced at the GraphQL boundary.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Status  int
	GraphQL []GraphQLError
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case len(e.GraphQL) > 0:
		b.WriteString(e.GraphQL[0].Message)
	case e.Status != 0:
		b.WriteString("HTTP " + strconv.Itoa(e.Status))
	default:
		b.WriteString(e.Kind.String() + " error")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind and message so that wrapped copies
// carrying an Op still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message && t.Op == "" && t.Status == 0
}

// KindOf classifies any error. Unknown errors count as network failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNetwork
}

// withOp returns a copy of a sentinel tagged with the operation name.
func withOp(sentinel *Error, op string) *Error {
	cp := *sentinel
	cp.Op = op
	return &cp
}

// classifyResponse maps an HTTP status and body into an *Error, or nil when
// the response carries usable data.
func classifyResponse(op string, status int, body []byte) *Error {
	var probe struct {
		Data   json.RawMessage `json:"data"`
		Errors []GraphQLError  `json:"errors"`
	}
	decodeErr := json.Unmarshal(body, &probe)

	if status == 401 || status == 403 {
		return &Error{Kind: KindAuthentication, Op: op, Status: status, GraphQL: probe.Errors}
	}
	if decodeErr == nil && len(probe.Errors) > 0 {
		kind := KindNetwork
		for _, ge := range probe.Errors {
			if isAuthError(ge) {
				kind = KindAuthentication
				break
			}
		}
		return &Error{Kind: kind, Op: op, Status: status, GraphQL: probe.Errors}
	}
	if status != 200 {
		return &Error{Kind: KindNetwork, Op: op, Status: status, Message: fmt.Sprintf("HTTP %d: %s", status, truncateBytes(body, 200))}
	}
	if decodeErr != nil {
		return &Error{Kind: KindNetwork, Op: op, Message: "malformed response", Err: decodeErr}
	}
	return nil
}

func isAuthError(ge GraphQLError) bool {
	switch ge.Code() {
	case "UNAUTHENTICATED", "FORBIDDEN":
		return true
	}
	msg := strings.ToLower(ge.Message)
	return strings.Contains(msg, "not authenticated") ||
		strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "unauthorized")
}

// parseRateLimitReset parses the X-Rate-Limit-Reset unix timestamp header.
// Falls back to 15 minutes from now if missing or invalid.
func parseRateLimitReset(v string) time.Time {
	if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(ts, 0)
	}
	return time.Now().Add(15 * time.Minute)
}
