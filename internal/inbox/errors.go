package inbox

import "errors"

// Notices shown to the user. Nothing changes when one is returned.
var (
	ErrNotImage      = errors.New("only image files can be attached")
	ErrNothingToSend = errors.New("type a message or attach an image")
	ErrNoSelection   = errors.New("select a conversation first")
)

var (
	ErrUnknownConversation = errors.New("unknown conversation")
	ErrUnsupported         = errors.New("not available in this dashboard variant")
	ErrInvalidResolution   = errors.New("invalid resolution state")
	ErrUnknownProfile      = errors.New("unknown profile")
	ErrUnknownLabel        = errors.New("unknown label")
	ErrUnknownSubView      = errors.New("unknown sub-view")
	ErrUnknownVariant      = errors.New("unknown dashboard variant")
	ErrDanglingMessage     = errors.New("message references a missing conversation")
)

// IsNotice reports whether err is meant to be shown to the user as-is.
func IsNotice(err error) bool {
	return errors.Is(err, ErrNotImage) ||
		errors.Is(err, ErrNothingToSend) ||
		errors.Is(err, ErrNoSelection)
}
