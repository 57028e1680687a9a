// Package clean implements the clean component, which removes leftover
// run directories from the temp root. A run that was killed hard leaves
// its sos-* workspace behind; clean enumerates those directories, filters
// by age, and deletes them (or only lists them under --dry-run).
package clean
