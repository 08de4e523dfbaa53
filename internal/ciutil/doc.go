// Package ciutil detects CI environments and reads environment variables
// that have more than one accepted name.
package ciutil
