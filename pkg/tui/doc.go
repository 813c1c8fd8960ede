// Package tui is the interactive frontend. One tab per read operation
// (status, managed, diff, data, doctor), each loaded through the service so
// a refresh supersedes the load already in flight. Apply asks for
// confirmation. The current diff can be copied to the clipboard or
// exported as a patch file.
package tui
