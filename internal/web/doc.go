// Package web serves the server-rendered front end: registration, login and
// a task dashboard. Pages authenticate with the access_token cookie set at
// login and share the services and token resolver used by the JSON API.
package web
