package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	pathParamRegex = regexp.MustCompile(`{([^}]+)}`)
)

// Err defines an error type that can be enriched with a http status code.
type Err struct {
	Message string
	Status  int
}

// Error implements the std error type.
func (e *Err) Error() string {
	return fmt.Sprintf("Error Code: %d Message: %s", e.Status, e.Message)
}

func NewErrf(status int, msg string, a ...any) *Err {
	return &Err{
		Message: fmt.Sprintf(msg, a...),
		Status:  status,
	}
}

// Func defines a server Func that implements an restful api endpoint.
type Func[Req any, Resp any] func(ctx context.Context, req *Req) (*Resp, error)

type Mux interface {
	HandleFunc(pattern string, f func(w http.ResponseWriter, r *http.Request))
}

type headerCtxKey struct{}

// WithHeader returns a copy of ctx carrying the request header h.
func WithHeader(ctx context.Context, h http.Header) context.Context {
	return context.WithValue(ctx, headerCtxKey{}, h)
}

// HeaderFromContext returns the request header FuncAdapter stored in ctx, or an empty header.
func HeaderFromContext(ctx context.Context) http.Header {
	h, ok := ctx.Value(headerCtxKey{}).(http.Header)
	if !ok {
		return http.Header{}
	}
	return h
}

// RegisterFunc registers f for the method and endpoint. Path wildcards, including the trailing
// "{name...}" form, are passed to f under their name.
func RegisterFunc[Req any, Resp any](logger *logrus.Logger, mux Mux, method, endpoint string, f Func[Req, Resp]) {
	mux.HandleFunc(fmt.Sprintf("%s %s", method, endpoint), FuncAdapter(logger, f, PathParams(endpoint)...))
}

// PathParams returns the wildcard names of a ServeMux pattern.
func PathParams(endpoint string) []string {
	var keys []string
	matches := pathParamRegex.FindAllStringSubmatch(endpoint, -1)
	for match := range slices.Values(matches) {
		keys = append(keys, strings.TrimSuffix(match[1], "..."))
	}
	return keys
}

// FuncAdapter turns f into a http.HandlerFunc. The request is decoded from the JSON body, the query
// and the path wildcards, in increasing order of precedence. f returns a response or an error the
// same way a gRPC method does; an *Err carries its status, any other error is a 500.
func FuncAdapter[Req any, Resp any](log *logrus.Logger, f Func[Req, Resp], pathParamKeys ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.WithContext(r.Context()).WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"pattern": r.Pattern,
			"query":   r.URL.Query(),
		})
		logger.Debug("Handling request in FuncAdapter")

		var req Req
		if restErr := decodeRequest(r, &req, pathParamKeys); restErr != nil {
			logger.WithField("status", restErr.Status).Warn(restErr.Message)
			http.Error(w, restErr.Message, restErr.Status)
			return
		}

		resp, err := f(WithHeader(r.Context(), r.Header), &req)
		if err != nil {
			var restErr *Err
			if !errors.As(err, &restErr) {
				restErr = &Err{
					Message: err.Error(),
					Status:  http.StatusInternalServerError,
				}
			}
			http.Error(w, restErr.Message, restErr.Status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err = json.NewEncoder(w).Encode(resp)
		if err != nil {
			logger.WithError(err).Error("Failed to write response body in FuncAdapter")
		}
	}
}

func decodeRequest(r *http.Request, req any, pathParamKeys []string) *Err {
	reqData := make(map[string]any)

	if r.Body != nil && r.ContentLength > 0 {
		err := json.NewDecoder(r.Body).Decode(&reqData)
		if err != nil {
			return NewErrf(http.StatusBadRequest, "unmarshal request body: %q", err.Error())
		}
	}

	for qParam, val := range r.URL.Query() {
		switch {
		case len(val) == 1:
			reqData[qParam] = val[0]
		case len(val) > 1:
			reqData[qParam] = val
		}
	}

	for param := range slices.Values(pathParamKeys) {
		if val := r.PathValue(param); val != "" {
			reqData[param] = val
		}
	}

	merged, err := json.Marshal(reqData)
	if err != nil {
		return NewErrf(http.StatusInternalServerError, "marshal merged request data: %q", err.Error())
	}
	err = json.Unmarshal(merged, req)
	if err != nil {
		return NewErrf(http.StatusBadRequest, "unmarshal merged request body: %q", err.Error())
	}
	return nil
}
