package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/atticapp/attic-server/internal/http/response"
)

// EnvelopeVersion is the current envelope format version.
const EnvelopeVersion = response.Version

// APIEnvelope wraps successful responses and uncoded failures.
type APIEnvelope = response.Envelope //nolint:revive // Matches APIError naming

// APIErrorEnvelope wraps coded failures.
type APIErrorEnvelope = response.ErrorEnvelope //nolint:revive // Matches APIError naming

// EnvelopeTransformer wraps every operation body in the response envelope.
// Health responses go out bare so probes can read them without unwrapping.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case nil:
		return response.Success(nil), nil
	case *APIError:
		return response.Coded(body.Code, body.Message, body.Details), nil
	case error:
		return response.Failure(body.Error()), nil
	case *HealthResponse, HealthResponse:
		return v, nil
	case APIEnvelope, *APIEnvelope, APIErrorEnvelope, *APIErrorEnvelope:
		return v, nil
	default:
		return response.Success(v), nil
	}
}
