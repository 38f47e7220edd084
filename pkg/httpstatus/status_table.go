package httpstatus

// Status is an HTTP response status code.
type Status int

const (
	// 1xx informational response
	StatusContinue           Status = 100
	StatusSwitchingProtocols Status = 101
	StatusProcessing         Status = 102
	StatusEarlyHints         Status = 103

	// 2xx success
	StatusOK                          Status = 200
	StatusCreated                     Status = 201
	StatusAccepted                    Status = 202
	StatusNonAuthoritativeInformation Status = 203
	StatusNoContent                   Status = 204
	StatusResetContent                Status = 205
	StatusPartialContent              Status = 206
	StatusMultiStatus                 Status = 207
	StatusAlreadyReported             Status = 208
	StatusIMUsed                      Status = 226

	// 3xx redirection
	StatusMultipleChoices   Status = 300
	StatusMovedPermanently  Status = 301
	StatusFound             Status = 302
	StatusSeeOther          Status = 303
	StatusNotModified       Status = 304
	StatusUseProxy          Status = 305
	StatusSwitchProxy       Status = 306
	StatusTemporaryRedirect Status = 307
	StatusPermanentRedirect Status = 308

	// 4xx client errors
	StatusBadRequest                  Status = 400
	StatusUnauthorized                Status = 401
	StatusPaymentRequired             Status = 402
	StatusForbidden                   Status = 403
	StatusNotFound                    Status = 404
	StatusMethodNotAllowed            Status = 405
	StatusNotAcceptable               Status = 406
	StatusProxyAuthenticationRequired Status = 407
	StatusRequestTimeout              Status = 408
	StatusConflict                    Status = 409
	StatusGone                        Status = 410
	StatusLengthRequired              Status = 411
	StatusPreconditionFailed          Status = 412
	StatusPayloadTooLarge             Status = 413
	StatusURITooLong                  Status = 414
	StatusUnsupportedMediaType        Status = 415
	StatusRangeNotSatisfiable         Status = 416
	StatusExpectationFailed           Status = 417
	StatusImATeapot                   Status = 418
	StatusMisdirectedRequest          Status = 421
	StatusUnprocessableEntity         Status = 422
	StatusLocked                      Status = 423
	StatusFailedDependency            Status = 424
	StatusTooEarly                    Status = 425
	StatusUpgradeRequired             Status = 426
	StatusPreconditionRequired        Status = 428
	StatusTooManyRequests             Status = 429
	StatusRequestHeaderFieldsTooLarge Status = 431
	StatusUnavailableForLegalReasons  Status = 451

	// 5xx server errors
	StatusInternalServerError           Status = 500
	StatusNotImplemented                Status = 501
	StatusBadGateway                    Status = 502
	StatusServiceUnavailable            Status = 503
	StatusGatewayTimeout                Status = 504
	StatusHTTPVersionNotSupported       Status = 505
	StatusVariantAlsoNegotiates         Status = 506
	StatusInsufficientStorage           Status = 507
	StatusLoopDetected                  Status = 508
	StatusNotExtended                   Status = 510
	StatusNetworkAuthenticationRequired Status = 511
)

// names maps each enumerated status to its identifier.
var names = map[Status]string{
	StatusContinue:                      "Continue",
	StatusSwitchingProtocols:            "Switching_Protocols",
	StatusProcessing:                    "Processing",
	StatusEarlyHints:                    "Early_Hints",
	StatusOK:                            "Ok",
	StatusCreated:                       "Created",
	StatusAccepted:                      "Accepted",
	StatusNonAuthoritativeInformation:   "Non_Authoritative_Information",
	StatusNoContent:                     "No_Content",
	StatusResetContent:                  "Reset_Content",
	StatusPartialContent:                "Partial_Content",
	StatusMultiStatus:                   "Multi_Status",
	StatusAlreadyReported:               "Already_Reported",
	StatusIMUsed:                        "IM_Used",
	StatusMultipleChoices:               "Multiple_Choices",
	StatusMovedPermanently:              "Moved_Permanently",
	StatusFound:                         "Found",
	StatusSeeOther:                      "See_Other",
	StatusNotModified:                   "Not_Modified",
	StatusUseProxy:                      "Use_Proxy",
	StatusSwitchProxy:                   "Switch_Proxy",
	StatusTemporaryRedirect:             "Temporary_Redirect",
	StatusPermanentRedirect:             "Permanent_Redirect",
	StatusBadRequest:                    "Bad_Request",
	StatusUnauthorized:                  "Unauthorized",
	StatusPaymentRequired:               "Payment_Required",
	StatusForbidden:                     "Forbidden",
	StatusNotFound:                      "Not_Found",
	StatusMethodNotAllowed:              "Method_Not_Allowed",
	StatusNotAcceptable:                 "Not_Acceptable",
	StatusProxyAuthenticationRequired:   "Proxy_Authentication_Required",
	StatusRequestTimeout:                "Request_Timeout",
	StatusConflict:                      "Conflict",
	StatusGone:                          "Gone",
	StatusLengthRequired:                "Length_Required",
	StatusPreconditionFailed:            "Precondition_Failed",
	StatusPayloadTooLarge:               "Payload_Too_Large",
	StatusURITooLong:                    "URI_Too_Long",
	StatusUnsupportedMediaType:          "Unsupported_Media_Type",
	StatusRangeNotSatisfiable:           "Range_Not_Satisfiable",
	StatusExpectationFailed:             "Expectation_Failed",
	StatusImATeapot:                     "Im_A_Teapot",
	StatusMisdirectedRequest:            "Misdirected_Request",
	StatusUnprocessableEntity:           "Unprocessable_Entity",
	StatusLocked:                        "Locked",
	StatusFailedDependency:              "Failed_Dependency",
	StatusTooEarly:                      "Too_Early",
	StatusUpgradeRequired:               "Upgrade_Required",
	StatusPreconditionRequired:          "Precondition_Required",
	StatusTooManyRequests:               "Too_Many_Requests",
	StatusRequestHeaderFieldsTooLarge:   "Request_Header_Fields_Too_Large",
	StatusUnavailableForLegalReasons:    "Unavailable_For_Legal_Reasons",
	StatusInternalServerError:           "Internal_Server_Error",
	StatusNotImplemented:                "Not_Implemented",
	StatusBadGateway:                    "Bad_Gateway",
	StatusServiceUnavailable:            "Service_Unavailable",
	StatusGatewayTimeout:                "Gateway_Timeout",
	StatusHTTPVersionNotSupported:       "HTTP_Version_Not_Supported",
	StatusVariantAlsoNegotiates:         "Variant_Also_Negotiates",
	StatusInsufficientStorage:           "Insufficient_Storage",
	StatusLoopDetected:                  "Loop_Detected",
	StatusNotExtended:                   "Not_Extended",
	StatusNetworkAuthenticationRequired: "Network_Authentication_Required",
}
