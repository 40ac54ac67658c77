package errors

// ErrorCode identifies the class of an application error for API clients.
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_INVALID_PAYLOAD

	ErrorCode_MEETING_NOT_FOUND
	ErrorCode_ACTION_ITEM_NOT_FOUND
	ErrorCode_ANALYSIS_NOT_FOUND
	ErrorCode_RECONCILE_FAILED
	ErrorCode_TRANSCRIPT_UNAVAILABLE

	ErrorCode_INTEGRATION_SOURCE_API_FAILED
	ErrorCode_INTEGRATION_CACHE_FAILED

	ErrorCode_DB_CONNECTION_FAILED
	ErrorCode_DB_QUERY_FAILED
)

// ErrorCode_HTTP_OK marks a successful response envelope.
const ErrorCode_HTTP_OK ErrorCode = 200

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                   "UNSPECIFIED",
	ErrorCode_INTERNAL:                      "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:              "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                     "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                "ALREADY_EXISTS",
	ErrorCode_INVALID_PAYLOAD:               "INVALID_PAYLOAD",
	ErrorCode_MEETING_NOT_FOUND:             "MEETING_NOT_FOUND",
	ErrorCode_ACTION_ITEM_NOT_FOUND:         "ACTION_ITEM_NOT_FOUND",
	ErrorCode_ANALYSIS_NOT_FOUND:            "ANALYSIS_NOT_FOUND",
	ErrorCode_RECONCILE_FAILED:              "RECONCILE_FAILED",
	ErrorCode_TRANSCRIPT_UNAVAILABLE:        "TRANSCRIPT_UNAVAILABLE",
	ErrorCode_INTEGRATION_SOURCE_API_FAILED: "INTEGRATION_SOURCE_API_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:      "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:          "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:               "DB_QUERY_FAILED",
	ErrorCode_HTTP_OK:                       "HTTP_OK",
}

// String returns the stable name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNSPECIFIED"
}
