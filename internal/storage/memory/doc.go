// Package memory provides an in-memory token cache.
//
// The Store is a single cell guarded by a sync.RWMutex. It is used when
// the token must not touch disk (token.store: memory) and as the backing
// store in tests of the service layer.
package memory
