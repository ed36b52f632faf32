// Package storefront holds build metadata for the storefront module.
package storefront

// Version is the module release version.
const Version = "0.1.0"

// ModulePath is the Go import path of the module.
const ModulePath = "github.com/mesh-intelligence/storefront"
