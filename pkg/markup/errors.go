package markup

import "github.com/vango-dev/markup/internal/errors"

// Error is the structured error returned by every markup operation. Use
// errors.As to inspect NodeType, Attribute and Index.
type Error = errors.MarkupError

// Sentinels for errors.Is. Errors match by code, so
// errors.Is(err, ErrInvalidChildren) holds for any E110 error.
var (
	ErrUnknownType              error = errors.Sentinel("E090")
	ErrAttributeNotSupported    error = errors.Sentinel("E100")
	ErrAttributeRequired        error = errors.Sentinel("E101")
	ErrInvalidAttributeValue    error = errors.Sentinel("E102")
	ErrUnsupportedAttributeType error = errors.Sentinel("E103")
	ErrInvalidChildren          error = errors.Sentinel("E110")
	ErrRenderCycle              error = errors.Sentinel("E120")
	ErrUnrenderableValue        error = errors.Sentinel("E121")
)
