// Package store keeps encoded tokens in Redis behind short random handles.
//
// A handle is a UUID that can be handed out instead of the token itself (for
// example as an opaque cookie value). [Store.Get] returns the token still in its
// [goToken.Encoded] state: a stored token is never trusted until the caller decodes
// it. Entries expire in Redis together with the token they hold.
//
// # Architecture boundaries
//
// This package owns Redis I/O only. It does NOT sign, verify, or inspect token
// strings; that is goToken's job.
//
// # What this package must NOT do
//
//   - Decode or verify stored tokens.
//   - Keep entries alive past the expiry the caller supplied.
package store
