// Package password hashes and verifies account passwords.
//
// New hashes use Argon2id in PHC string form by default; bcrypt can be selected
// for deployments that need hashes compatible with older notebook clients.
// Verify accepts either format, so existing bcrypt hashes keep working after
// the default algorithm changes.
//
// Hash strings are treated as untrusted input during Verify: Argon2id
// parameters far above the configured ones are refused.
package password
