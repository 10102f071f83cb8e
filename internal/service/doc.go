// Package service implements the application rules that sit between the HTTP
// surfaces and the stores: registration and login, and task access scoped to
// the owning user.
package service
