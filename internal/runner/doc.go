// Package runner submits command chunks to fleet agents and returns
// their results.
//
// The Runner interface keeps route handlers transport-agnostic. The
// shipped MQTTRunner publishes each chunk as a JSON request on
// fleetgate/cmd/req/{id} and waits for the matching reply on
// fleetgate/cmd/resp/{id}; a single wildcard subscription serves every
// in-flight command, correlated back to its waiting caller by the reply
// payload's ID. Commands with no reply inside the configured window fail
// with ErrReplyTimeout.
package runner
