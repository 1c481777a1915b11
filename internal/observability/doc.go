// Package observability builds the console's structured logger.
//
// Every component receives a *zap.Logger from here; request-scoped fields
// (request_id, path) are added by the caller.
package observability
