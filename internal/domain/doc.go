// Package domain contains the core business entities of the to-do service
// (users and their tasks) together with their validation rules. It has no
// dependency on storage or transport.
package domain
