// Package notes is the ownership-guarded note store.
//
// Every operation takes an identity.Caller. The zero Caller is rejected before
// the store is touched. For operations on one note the order of checks is fixed:
// a missing note is NotFound, then a note owned by someone else is an
// AuthError(access_denied). Field contents never reach a non-owner.
package notes
