package xclient

import (
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/google/uuid"
)

// defaultUserAgent is the fallback User-Agent when no profile UA is set.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// graphqlHeaders returns the headers sent with every GraphQL request.
// token is omitted for anonymous requests.
func graphqlHeaders(token, userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	h := map[string]string{
		"content-type":    "application/json",
		"accept":          "application/graphql-response+json, application/json",
		"accept-language": "en-US,en;q=0.9",
		"user-agent":      userAgent,
		"x-request-id":    uuid.NewString(),
	}
	if token != "" {
		h["authorization"] = "Bearer " + token
	}
	if ch := stealth.ClientHintsHeaders(userAgent); ch != nil {
		for k, v := range ch {
			h[k] = v
		}
	}
	return h
}

// headerOrder keeps the header order stable across requests.
var headerOrder = []string{
	"authorization",
	"content-type",
	"x-request-id",
	"sec-ch-ua",
	"sec-ch-ua-mobile",
	"sec-ch-ua-platform",
	"user-agent",
	"accept",
	"accept-language",
	"accept-encoding",
}
