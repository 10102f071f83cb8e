// Package auth holds the credential primitives: bcrypt password hashing and
// HMAC-signed JWT access tokens whose subject is the user's e-mail.
package auth
