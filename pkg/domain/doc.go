// Package domain contains the recipe aggregate and the value objects it is
// built from. Every type here is constructed through a validating factory, so
// a value that exists is a valid one. The package has no knowledge of storage
// or transport.
package domain
