// Package catalog provides the storage and delivery core of the catalog
// service: a blob store for uploaded images, the upload/download pipelines
// that feed it, and the product and carousel records that reference stored
// blobs by logical name.
//
// The package is transport-agnostic. HTTP handlers live in
// pkg/catalog/api, byte storage backends in pkg/catalog/storage, and
// metadata repositories in pkg/catalog/repo.
//
// Basic usage:
//
//	svc, err := catalog.New(
//	    catalog.WithRepository(memory.New()),
//	    catalog.WithBlobStore("memory", memorystorage.New()),
//	    catalog.WithDefaultBackend("memory"),
//	)
package catalog
