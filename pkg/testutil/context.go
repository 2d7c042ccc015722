package testutil

import (
	"net/http"

	"agora/pkg/requestcontext"
)

// WithClientIP sets the client IP the way the client metadata middleware
// would, keeping any User-Agent already in the context.
func WithClientIP(req *http.Request, ip string) *http.Request {
	ctx := req.Context()
	return req.WithContext(requestcontext.WithClientMetadata(ctx, ip, requestcontext.UserAgent(ctx)))
}
