// Package command implements the operation family of the cluster client.
//
// Each operation is a value object: the constructor validates every
// argument up front, so an invalid command never reaches the wire.
// Execute performs the backend call against an open session and always
// folds the response code and subcode of the same handle into the
// returned Result.
//
// Results carry a three-way Outcome. Found means the call produced data,
// NotFound means the call completed but the target was absent, Failed
// means the backend rejected or could not perform the call. The error
// return of Execute is reserved for unusable sessions; everything the
// backend reports stays inside the Result so that callers always see the
// response codes.
package command
