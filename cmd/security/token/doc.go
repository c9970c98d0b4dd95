// Package token issues and verifies notebook identity tokens.
//
// An identity token is a stateless, signed proof of an account id. Two wire
// formats are supported:
//
//   - jwt: HS256 JSON Web Tokens signed with a shared server secret. The payload
//     carries {"user":{"id":...}} so tokens stay readable by existing clients.
//   - paseto: PASETO v4.public tokens signed with an Ed25519 key.
//
// The signing key is part of Config and is handed to New at startup; nothing in
// this package reads a key from a global.
//
// Tokens carry no exp claim and verify until the key changes; there is no
// refresh or revocation.
package token
