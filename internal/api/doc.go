// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between the operator's
// clients and the internal application services, translating HTTP concerns
// to account management and run-trigger operations.
package api
