package graphql

import (
	"errors"
	"net/http"
	"time"

	gql "github.com/graphql-go/graphql"

	commonhttp "github.com/AlibekovAA/gql-user-auth/internal/common/http"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
)

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type Handler struct {
	schema  gql.Schema
	log     *logger.Logger
	timeout time.Duration
}

func NewHandler(resolver *Resolver, log *logger.Logger, timeout time.Duration) (*Handler, error) {
	schema, err := NewSchema(resolver)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, log: log, timeout: timeout}, nil
}

// ServeHTTP answers every well-formed GraphQL request with 200; operation
// failures are reported in the errors array.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(h.timeout)(h.execute))(w, r)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request) {
	traceID := commonhttp.TraceIDFromContext(r.Context())

	var req request
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, commonhttp.ErrRequestTooLarge) {
			commonhttp.WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, commonhttp.CodeRequestTooLarge, "request body too large", nil, traceID)
			return
		}
		h.log.WithFields(r.Context(), logger.Fields{"action": "graphql_invalid_json"}).Warnf("invalid graphql request: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, traceID)
		return
	}
	if req.Query == "" {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "query is required", nil, traceID)
		return
	}

	result := gql.Do(gql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	commonhttp.WriteJSON(w, http.StatusOK, result)
}
