package router

import "errors"

// Sentinel errors. Errors returned by this package wrap one of these inside
// a coded *errors.CityError, so both errors.Is and errors.Code work.
var (
	ErrDuplicatePattern   = errors.New("duplicate route pattern")
	ErrParamCountMismatch = errors.New("param names do not match capture groups")
	ErrEmptyParamName     = errors.New("empty param name")
	ErrCatchAllNotLast    = errors.New("catch-all segment must be last")
	ErrDuplicateParam     = errors.New("duplicate param name")
	ErrInvalidPattern     = errors.New("invalid route pattern")
	ErrInvalidRouteType   = errors.New("invalid route type")
	ErrLoaderKind         = errors.New("loader kind does not match route type")
	ErrModuleLoad         = errors.New("module load failed")
	ErrNotPage            = errors.New("route has no page module")
	ErrUnknownModule      = errors.New("unknown module")
	ErrInvalidMenu        = errors.New("invalid menu")
)
