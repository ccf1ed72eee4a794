package graphql

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"

	"grocery.GO/app"
	graphqlpkg "grocery.GO/graphql"
	"grocery.GO/graphqlserver"
	"grocery.GO/service/session"
)

// RegisterGraphQLRoutes mounts /graphql and the playground. It panics when the schema and the
// resolvers disagree, which only happens when an extension registers a field nobody resolves.
func RegisterGraphQLRoutes(e *echo.Echo, a *app.App) {
	schema, err := graphqlserver.NewSchema(a)
	if err != nil {
		panic("graphql schema: " + err.Error())
	}
	registerRoutes(e, schema, a.Sessions)
}

func registerRoutes(e *echo.Echo, schema *graphql.Schema, sessions *session.Manager) {
	handler := graphqlserver.Handler(schema)
	h := sessionMiddleware(sessions, handler)
	e.POST("/graphql", echo.WrapHandler(h))
	e.GET("/graphql", echo.WrapHandler(h))
	e.GET("/playground", echo.WrapHandler(playgroundHandler()))
}

// maxBodyBytes bounds a single GraphQL request document.
const maxBodyBytes = 1 << 20

// writeError answers in the GraphQL error shape so clients parse it like any other response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]string{{"message": msg}},
	})
}

// sessionMiddleware opens the storefront named by the request and echoes its id back.
func sessionMiddleware(sessions *session.Manager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Method == http.MethodPost && r.Body != nil {
			var err error
			body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				status := http.StatusBadRequest
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					status = http.StatusRequestEntityTooLarge
				}
				writeError(w, status, "invalid request body: "+err.Error())
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		sf, _ := sessions.Open(r.Context(), graphqlpkg.SessionID(r, body))
		w.Header().Set(graphqlpkg.HeaderSession, sf.ID)
		ctx := graphqlpkg.WithStorefront(r.Context(), sf)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playgroundHandler() http.Handler {
	html := `<!DOCTYPE html>
<html>
<head>
	<title>GraphQL Playground</title>
	<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css"/>
</head>
<body>
	<div id="root"/>
	<script src="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
	<script>window.addEventListener('load', function() {
		GraphQLPlayground.init({ endpoint: '/graphql' });
	})</script>
</body>
</html>`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	})
}
