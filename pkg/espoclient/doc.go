// Package espoclient is the entry point for constructing an EspoCRM API client
// that implements the espo.Client interface.
//
// It layers configuration, HTTP transport and authentication on top of the
// request model defined in the espo package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//	  "time"
//
//	  "github.com/fivetwenty-io/espocrm-client/pkg/espo"
//	  "github.com/fivetwenty-io/espocrm-client/pkg/espoclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // API key authentication.
//	  cli, err := espoclient.NewWithAPIKey("https://crm.example.com", "api-key")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or HMAC, signing "<METHOD> /<action>" with the secret key:
//	  cli, err = espoclient.NewWithHMAC("https://crm.example.com", "api-key", "secret")
//
//	  // Or the full configuration:
//	  cli, err = espoclient.New(&espo.Config{
//	    URL:      "https://crm.example.com",
//	    Username: "admin",
//	    Password: "password",
//	    HTTPTimeout: 10 * time.Second,
//	  })
//
//	  resp, err := cli.Get(ctx, "Account", espo.NewParams().WithMaxSize(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = resp
//	}
//
// When both a username/password pair and API credentials are configured,
// HTTP Basic authentication is used.
package espoclient
