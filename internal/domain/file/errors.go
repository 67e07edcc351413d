package file

import "errors"

var (
	ErrNoFiles      = errors.New("no files uploaded")
	ErrFileTooLarge = errors.New("file exceeds the maximum upload size")
)
