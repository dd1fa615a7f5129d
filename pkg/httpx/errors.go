package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusFromGRPC maps a status error onto an HTTP status and a stable code string.
// Errors that carry no grpc status are treated as internal.
func StatusFromGRPC(err error) (int, string, string) {
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}

	switch st.Code() {
	case codes.OK:
		return http.StatusOK, "OK", st.Message()
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest, "INVALID_ARGUMENT", st.Message()
	case codes.NotFound:
		return http.StatusNotFound, "NOT_FOUND", st.Message()
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "UNAUTHENTICATED", st.Message()
	case codes.PermissionDenied:
		return http.StatusForbidden, "PERMISSION_DENIED", st.Message()
	case codes.FailedPrecondition:
		return http.StatusUnprocessableEntity, "FAILED_PRECONDITION", st.Message()
	case codes.Aborted, codes.AlreadyExists:
		return http.StatusConflict, "ABORTED", st.Message()
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable, "UNAVAILABLE", st.Message()
	case codes.Canceled:
		return 499, "CANCELED", st.Message()
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", slog.Any("err", err))
	}
}

// WriteError writes err as {"code","message"}. err should already be a grpc status
// error produced by a context's mapErr.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code, name, msg := StatusFromGRPC(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("code", name),
			slog.Any("err", err),
		)
	}
	WriteJSON(w, code, errorBody{Code: name, Message: msg})
}

// DecodeJSON decodes the request body into v and rejects unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid body: %s", strings.TrimSpace(err.Error()))
	}
	return nil
}
