// Package types defines the response envelope, the CRUD consumer contract,
// the Product entity, and the storage-side Cupboard and Table interfaces
// shared by the storefront client, facade, and reference backend.
package types
