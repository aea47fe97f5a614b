// Package espo provides types and helpers for talking to the EspoCRM REST API.
//
// # Overview
//
// The espo package defines the request model: filter conditions (Where),
// list parameters (Params), the Value union used for filter operands, and the
// serializer that renders Params in the bracket notation EspoCRM's PHP backend
// parses (the format of PHP's http_build_query). A concrete Client is provided
// by the espoclient package, which wires configuration, transport and
// authentication.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/espocrm-client/pkg/espo"
//	  "github.com/fivetwenty-io/espocrm-client/pkg/espoclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := espoclient.New(&espo.Config{
//	    URL:    "https://crm.example.com",
//	    APIKey: "api-key",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  params := espo.NewParams().
//	    WithMaxSize(20).
//	    WithOrderBy("createdAt").
//	    WithOrder(espo.OrderDesc).
//	    WithWhere(espo.NewWhere(espo.Equals, "accountId", espo.String("abc")))
//
//	  resp, err := cli.Get(ctx, "Contact", params)
//	  if err != nil { log.Fatal(err) }
//
//	  var contacts espo.ListResult[map[string]interface{}]
//	  _ = resp.Decode(&contacts)
//	}
//
// # Query strings
//
// Serialize renders the fields of Params in a fixed order. Nested values
// extend the bracket path at every level:
//
//	where[0][type]=in&where[0][attribute]=status&where[0][value][0]=New
//
// with the key and the value percent-encoded independently and spaces as %20.
//
// # Authentication
//
// Exactly one scheme is used per client: HTTP Basic when a username and
// password are set, HMAC when an API key and secret key are set, a plain API
// key header otherwise, or none. See Config.
//
// # Errors
//
// ConfigurationError, EncodingError and TransportError classify failures and
// match ErrConfiguration, ErrEncoding and ErrTransport with errors.Is.
// Non-2xx responses are not errors; inspect Response.StatusCode.
//
// # Interceptors and batches
//
// InterceptorChain runs hooks around every request. BatchExecutor sends many
// requests concurrently over one client.
package espo
