// Package parser turns the textual output of the dotfile manager into typed
// values. Every function is pure: given the same stdout it returns the same
// value, and malformed input yields a PARSE_ERROR carrying the raw text
// instead of a partial result.
package parser
