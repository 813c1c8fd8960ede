// Package diff analyses unified diff text produced by the dotfile manager.
//
// Analyze scans the text once, line by line, tracking the current file
// section and the remaining line budget of the current hunk. Inside a hunk
// every line is content, so a removed line that itself starts with "-- " is
// counted as a deletion and not mistaken for a file header. Outside hunks,
// header lines open file sections:
//
//	diff --git a/X b/Y
//	--- a/X / +++ b/Y
//	Binary files a/X and b/Y differ
//	rename to Y
//
// Mode-change lines only flag the current file. Binary sections are listed
// as changed with zero counts. Input without any header still has its
// +/- lines counted.
//
// Exporter writes diff text to timestamped .patch files and Load reads them
// back, so re-analysing an export yields the same Statistics.
package diff
