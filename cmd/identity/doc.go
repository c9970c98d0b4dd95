// Package identity implements notebook accounts and authentication.
//
// It owns registration, credential checks, identity token issuance, and the
// guard that turns a presented token back into a Caller. Persistence sits
// behind Store (Postgres in production, in-memory for dev and tests); token
// signing sits behind token.Manager, whose key is supplied at construction.
package identity
