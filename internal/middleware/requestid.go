package middleware

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// RequestIDKey is the context key for storing the request ID.
const RequestIDKey contextKey = "request_id"

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// RequestIDInterceptor returns a Connect interceptor that tags every RPC with a request ID.
// A client-supplied X-Request-Id is kept; otherwise a new UUID is generated.
// The ID is echoed on the response, or in the error metadata when the RPC fails.
func RequestIDInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			id := req.Header().Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx = context.WithValue(ctx, RequestIDKey, id)

			resp, err := next(ctx, req)
			if err != nil {
				// Failed handlers return a typed nil response; only the error carries headers.
				var connectErr *connect.Error
				if !errors.As(err, &connectErr) {
					connectErr = connect.NewError(connect.CodeUnknown, err)
				}
				connectErr.Meta().Set(RequestIDHeader, id)
				return nil, connectErr
			}
			resp.Header().Set(RequestIDHeader, id)
			return resp, nil
		}
	}
}
