// Package eauth implements pluggable authentication backends ("eauth"
// after the body field that selects one).
//
// A login request names a backend; the registry resolves it to an Issuer,
// which validates the credentials and mints a signed token on success.
// The shipped StaticIssuer checks username/password pairs fixed in the
// gateway config against argon2id hashes and mints HS256 JWTs. Further
// backends (LDAP, PAM passthrough) plug in behind the same interface.
package eauth
