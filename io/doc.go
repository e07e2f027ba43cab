// Package io provides the peripheral input and output of the μVM: reading
// binaries, writing program listings, and dumping memory for display.
package io
