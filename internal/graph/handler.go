package graph

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

// NewHandler serves schema over HTTP. With playground set, browser GET
// requests receive GraphQL Playground.
func NewHandler(schema graphql.Schema, playground bool) http.Handler {
	return handler.New(&handler.Config{
		Schema:     &schema,
		Pretty:     true,
		GraphiQL:   false,
		Playground: playground,
	})
}
