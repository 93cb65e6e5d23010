package renderer

import "errors"

var (
	ErrInvalidFrameDims = errors.New("renderer: frame dimensions must be greater than zero")
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
)
