package utils

import "errors"

// ErrorRecordNotFound is the sentinel for lookups that found no row the
// caller may see; handlers translate it to a 404.
var ErrorRecordNotFound = errors.New("record not found")

// ErrorPanic aborts startup on unrecoverable wiring errors, such as a failed
// migration.
func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
