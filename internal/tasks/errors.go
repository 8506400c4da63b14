package tasks

import "errors"

var (
	// ErrConnection means no scheduler session could be established. It is
	// the only failure that ends a collection early.
	ErrConnection = errors.New("task service connection failed")
	// ErrFolder means a folder or its task collection could not be opened
	ErrFolder = errors.New("task folder unavailable")
	// ErrTaskFetch means a single task could not be fetched from its collection
	ErrTaskFetch = errors.New("task fetch failed")
	// ErrField means a single task attribute could not be read
	ErrField = errors.New("task field unavailable")
	// ErrAction means a single action could not be fetched
	ErrAction = errors.New("task action unavailable")
)
