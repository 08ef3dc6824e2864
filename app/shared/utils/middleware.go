package utils

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// MiddlewareHelpers builds watermill middleware shared by the module routers.
type MiddlewareHelpers interface {
	CommonMetadataMiddleware(module string) message.HandlerMiddleware
}

type middlewareHelpers struct{}

// NewMiddlewareHelper returns the default MiddlewareHelpers implementation.
func NewMiddlewareHelper() MiddlewareHelpers {
	return middlewareHelpers{}
}

// CommonMetadataMiddleware stamps every message handled by a module with the
// handling module name and a processed-at timestamp.
func (middlewareHelpers) CommonMetadataMiddleware(module string) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			produced, err := h(msg)
			if err != nil {
				return nil, err
			}
			for _, m := range produced {
				m.Metadata.Set("handled_by", module)
				m.Metadata.Set("processed_at", time.Now().UTC().Format(time.RFC3339Nano))
			}
			return produced, nil
		}
	}
}
