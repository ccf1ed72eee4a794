package graphql

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSchema_AppendsExtensions(t *testing.T) {
	base := Schema()
	RegisterSchemaExtension("  extend type Query { storeHours: String! }  ")
	t.Cleanup(func() {
		schemaMu.Lock()
		schemaExtensions = schemaExtensions[:len(schemaExtensions)-1]
		schemaMu.Unlock()
	})

	got := Schema()
	if !strings.HasPrefix(got, base) {
		t.Fatal("extended schema must start with the base schema")
	}
	if !strings.HasSuffix(got, "extend type Query { storeHours: String! }") {
		t.Fatalf("extension not appended: %q", got[len(base):])
	}
}

func TestSessionID_Priority(t *testing.T) {
	body := []byte(`{"query":"{ cart { itemCount } }","variables":{"__session":"from-vars"}}`)

	r := httptest.NewRequest("POST", "/graphql?__session=from-query", nil)
	r.Header.Set(HeaderSession, "from-header")
	if got := SessionID(r, body); got != "from-header" {
		t.Errorf("header: got %q", got)
	}

	r = httptest.NewRequest("POST", "/graphql?__session=from-query", nil)
	if got := SessionID(r, body); got != "from-query" {
		t.Errorf("query: got %q", got)
	}

	r = httptest.NewRequest("POST", "/graphql", nil)
	if got := SessionID(r, body); got != "from-vars" {
		t.Errorf("variables: got %q", got)
	}
	if got := SessionID(r, []byte(`not json`)); got != "" {
		t.Errorf("bad body: got %q", got)
	}
}
