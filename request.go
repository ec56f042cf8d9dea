package xclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// graphqlRequest is the POST body sent to the endpoint.
type graphqlRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// doGraphQL executes one operation and returns its "data" object.
// Every failure is returned as an *Error. There are no retries: a failed
// command is reported once and the user may repeat it.
func (c *Client) doGraphQL(ctx context.Context, name string, variables map[string]any) (json.RawMessage, error) {
	op, err := lookupOperation(name)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: name, Err: err}
	}

	if c.rateLimiter.IsRateLimited(name) || !c.rateLimiter.Allow(name) {
		c.recordAPICall(name, false, true)
		until := c.rateLimiter.AvailableAt(name)
		return nil, &Error{Kind: KindNetwork, Op: name, Message: "rate limited until " + until.Format(time.RFC3339)}
	}

	payload, err := json.Marshal(graphqlRequest{OperationName: op.Name, Query: op.Document, Variables: variables})
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: name, Message: "encode request", Err: err}
	}

	token := c.Token()
	if op.Auth && token == "" {
		slog.Debug("sending authenticated operation without token", slog.String("operation", name))
	}

	// Mutations are never abandoned once issued. Queries get the default
	// timeout unless the caller set a deadline.
	if op.Kind == Mutation {
		ctx = context.WithoutCancel(ctx)
	} else if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	body, respHdrs, status, err := c.transport.Do(ctx, "POST", c.cfg.Endpoint, graphqlHeaders(token, c.userAgent), bytes.NewReader(payload))
	if err != nil {
		c.recordAPICall(name, false, false)
		slog.Warn("graphql request failed", slog.String("operation", name), slog.Any("error", err))
		return nil, &Error{Kind: KindNetwork, Op: name, Err: err}
	}

	if status == 429 {
		c.recordAPICall(name, false, true)
		c.rateLimiter.MarkRateLimited(name, parseRateLimitReset(respHdrs["x-rate-limit-reset"]))
		return nil, &Error{Kind: KindNetwork, Op: name, Status: status, Message: "429 rate limited"}
	}

	if gqlErr := classifyResponse(name, status, body); gqlErr != nil {
		c.recordAPICall(name, false, false)
		slog.Warn("graphql error",
			slog.String("operation", name),
			slog.Int("status", status),
			slog.String("kind", gqlErr.Kind.String()),
			slog.String("body", truncateBytes(body, 500)))
		return nil, gqlErr
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	// classifyResponse already proved the body decodes.
	_ = json.Unmarshal(body, &envelope)

	c.recordAPICall(name, true, false)
	slog.Debug("graphql ok", slog.String("operation", name), slog.Duration("took", time.Since(start)))
	return envelope.Data, nil
}

// decodeField unmarshals data[field] into dst and reports whether the field
// was present and non-null.
func decodeField(op string, data json.RawMessage, field string, dst any) (bool, error) {
	var fields map[string]json.RawMessage
	if len(data) == 0 || string(data) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return false, &Error{Kind: KindNetwork, Op: op, Message: "malformed data", Err: err}
	}
	raw, ok := fields[field]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, &Error{Kind: KindNetwork, Op: op, Message: fmt.Sprintf("decode %s", field), Err: err}
	}
	return true, nil
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
