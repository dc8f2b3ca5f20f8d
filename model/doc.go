// Package model catalogs the chat and image models the pipeline can run
// against. Each entry pins an API identifier to its provider so the client
// can route a request without extra configuration.
package model
