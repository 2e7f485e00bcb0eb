package gql

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/app"
)

// NewSchema parses the SDL against the root resolver. Panics on a
// schema/resolver mismatch, which is a programming error caught at boot.
func NewSchema(a *app.Application) *graphqlgo.Schema {
	return graphqlgo.MustParseSchema(SchemaSDL, NewRoot(a))
}

type gqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// RegisterRoutes mounts the GraphQL endpoint. The explorer page is served
// only in dev mode; production gets POST only.
func RegisterRoutes(r chi.Router, a *app.Application) {
	schema := NewSchema(a)

	r.Post("/graphql", serveQuery(a, schema))
	r.Get("/graphql", func(w http.ResponseWriter, req *http.Request) {
		if !a.Config.DevMode {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(explorerPage))
	})
}

func serveQuery(a *app.Application, schema *graphqlgo.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !a.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"errors": []map[string]string{{"message": "data is still loading, try again shortly"}},
			})
			return
		}

		var body gqlRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"errors": []map[string]string{{"message": "invalid request body"}},
			})
			return
		}

		loaders := NewLoaders(a)
		ctx := WithLoaders(req.Context(), loaders)

		start := time.Now()
		resp := schema.Exec(ctx, body.Query, body.OperationName, body.Variables)
		elapsed := time.Since(start)

		if len(resp.Errors) > 0 {
			for _, qe := range resp.Errors {
				log.Printf("[gql] request %s error: %v", loaders.RequestID, qe)
			}
			if !a.Config.DevMode {
				// Opaque errors outside dev; details stay in the log.
				for _, qe := range resp.Errors {
					qe.Message = "internal error"
					qe.ResolverError = nil
				}
			}
		}

		log.Printf("[gql] request %s op=%q took %s (%d batch loads)",
			loaders.RequestID, body.OperationName, elapsed.Round(time.Millisecond), totalBatches(loaders))

		json.NewEncoder(w).Encode(resp)
	}
}

func totalBatches(l *Loaders) int {
	return l.Scorecards.BatchCalls + l.Moneyball.BatchCalls + l.Bills.BatchCalls + l.Members.BatchCalls
}

const explorerPage = `<!DOCTYPE html>
<html>
<head>
	<title>ILGA GraphQL Explorer</title>
	<link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
	<style>body { margin: 0; } #graphiql { height: 100vh; }</style>
</head>
<body>
	<div id="graphiql">Loading...</div>
	<script src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
	<script src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
	<script src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
	<script>
		ReactDOM.createRoot(document.getElementById('graphiql')).render(
			React.createElement(GraphiQL, {
				fetcher: GraphiQL.createFetcher({ url: '/graphql' }),
				defaultQuery: '{\n  members(limit: 5) {\n    items { name chamber district }\n    pageInfo { totalCount }\n  }\n}',
			})
		);
	</script>
</body>
</html>
`
