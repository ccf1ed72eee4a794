package graphql

import (
	"context"
	"encoding/json"
	"net/http"

	"grocery.GO/service/session"
)

// Context keys for resolver injection (avoids circular imports).
type contextKey string

const ctxKeyStorefront contextKey = "storefront"

// The session is resolved from: X-Session-ID header > __session query param > JSON variables.__session
const (
	HeaderSession     = "X-Session-ID"
	QueryParamSession = "__session"
	VarSession        = "__session"
)

// WithStorefront attaches the visitor's session to ctx.
func WithStorefront(ctx context.Context, sf *session.Storefront) context.Context {
	return context.WithValue(ctx, ctxKeyStorefront, sf)
}

// StorefrontFromContext returns the session attached by WithStorefront.
func StorefrontFromContext(ctx context.Context) (*session.Storefront, bool) {
	sf, ok := ctx.Value(ctxKeyStorefront).(*session.Storefront)
	return sf, ok && sf != nil
}

// SessionID extracts the session id from r. body is the already-read POST payload, if any.
func SessionID(r *http.Request, body []byte) string {
	if h := r.Header.Get(HeaderSession); h != "" {
		return h
	}
	if q := r.URL.Query().Get(QueryParamSession); q != "" {
		return q
	}
	if id, ok := SessionFromVariables(body); ok {
		return id
	}
	return ""
}

// SessionFromVariables reads variables.__session from a JSON request body.
func SessionFromVariables(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	var payload struct {
		Variables map[string]interface{} `json:"variables"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Variables == nil {
		return "", false
	}
	id, ok := payload.Variables[VarSession].(string)
	return id, ok && id != ""
}
