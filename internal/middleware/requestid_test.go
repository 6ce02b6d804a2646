package middleware

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingRequest struct{}

type pingResponse struct{}

func TestRequestIDInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		headerID  string
		handleErr error
		wantCode  connect.Code
	}{
		{name: "generates id on success"},
		{name: "keeps client id on success", headerID: "trace-me"},
		{
			name:      "connect error keeps its code",
			headerID:  "trace-me",
			handleErr: connect.NewError(connect.CodeInvalidArgument, errors.New("amount: is required")),
			wantCode:  connect.CodeInvalidArgument,
		},
		{
			name:      "plain error becomes unknown",
			handleErr: errors.New("store closed"),
			wantCode:  connect.CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				seen = GetRequestID(ctx)
				if tt.handleErr != nil {
					// Handlers return a typed nil response alongside an error.
					var resp *connect.Response[pingResponse]
					return resp, tt.handleErr
				}
				return connect.NewResponse(&pingResponse{}), nil
			}

			req := connect.NewRequest(&pingRequest{})
			if tt.headerID != "" {
				req.Header().Set(RequestIDHeader, tt.headerID)
			}

			resp, err := RequestIDInterceptor()(next)(context.Background(), req)
			require.NotEmpty(t, seen)
			if tt.headerID != "" {
				assert.Equal(t, tt.headerID, seen)
			}

			if tt.handleErr == nil {
				require.NoError(t, err)
				assert.Equal(t, seen, resp.Header().Get(RequestIDHeader))
				return
			}

			assert.Nil(t, resp)
			var connectErr *connect.Error
			require.True(t, errors.As(err, &connectErr))
			assert.Equal(t, tt.wantCode, connectErr.Code())
			assert.Equal(t, seen, connectErr.Meta().Get(RequestIDHeader))
		})
	}
}
