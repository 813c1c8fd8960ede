// Package service is the single entry point frontends use. It pairs a
// chezmoi.Client with a coordinator.Coordinator so that every call returns
// immediately with a handle, and applies the add policy before anything is
// dispatched.
package service
