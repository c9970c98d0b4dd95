// Package apperr defines the error taxonomy shared by the identity service,
// the notes store and the HTTP layer.
//
// Every error returned by a service operation unwraps to exactly one sentinel
// kind, so transports can map kinds to status codes with errors.Is and never
// need to inspect messages.
package apperr
