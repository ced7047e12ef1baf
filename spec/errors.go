package spec

import "errors"

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrLibraryMalformed = errors.New("library file malformed")
	ErrDiagramNotFound  = errors.New("diagram file not found")
	ErrDiagramMalformed = errors.New("diagram markup malformed")
	ErrNoShapes         = errors.New("no shapes in diagram")
	ErrShapeIncomplete  = errors.New("shape missing style or geometry")
)
