// Package localstore implements the repository interfaces on the key-value
// localstore, mirroring the original persistence protocol: full deserialize
// on every read, full overwrite on every write.
package localstore

import "fmt"

type repoError struct {
	err         error
	notFound    bool
	unavailable bool
}

func (e *repoError) Error() string {
	return fmt.Sprintf("localstore repository: %v", e.err)
}

func (e *repoError) Unwrap() error       { return e.err }
func (e *repoError) IsNotFound() bool    { return e.notFound }
func (e *repoError) IsConflict() bool    { return false }
func (e *repoError) IsUnavailable() bool { return e.unavailable }

func unavailableError(err error) *repoError {
	return &repoError{err: err, unavailable: true}
}
