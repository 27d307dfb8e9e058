package paymill

import (
	pkgerrors "github.com/commercekit/paymill-bridge/pkg/errors"
)

// ResponseCodeOK is the canonical success code of the processor API.
// Anything else in data.response_code is a failed operation.
const ResponseCodeOK = 20000

// ResponseCodeInfo contains detailed information about a response code
type ResponseCodeInfo struct {
	Code               int
	Display            string
	Description        string
	IsRetriable        bool
	RequiresUserAction bool
	Category           pkgerrors.ErrorCategory
	UserMessage        string
}

var responseCodes = map[int]ResponseCodeInfo{
	10001: {
		Code:        10001,
		Display:     "UNDEFINED",
		Description: "General undefined response",
		IsRetriable: true,
		Category:    pkgerrors.CategorySystemError,
		UserMessage: "Payment could not be completed. Please try again.",
	},
	20000: {
		Code:        20000,
		Display:     "OK",
		Description: "Operation successful",
		Category:    pkgerrors.CategoryApproved,
		UserMessage: "Payment successful",
	},
	40000: {
		Code:               40000,
		Display:            "BAD REQUEST",
		Description:        "Problem with transaction data",
		RequiresUserAction: true,
		Category:           pkgerrors.CategoryInvalidRequest,
		UserMessage:        "Payment could not be processed. Please check your details.",
	},
	40001: {
		Code:               40001,
		Display:            "BAD PAYMENT DATA",
		Description:        "Problem with payment data",
		RequiresUserAction: true,
		Category:           pkgerrors.CategoryInvalidPayment,
		UserMessage:        "Your payment details were rejected. Please use a different payment method.",
	},
	40100: {
		Code:        40100,
		Display:     "TXN PROBLEM",
		Description: "Problem with transaction",
		Category:    pkgerrors.CategoryDeclined,
		UserMessage: "Payment was declined.",
	},
	50000: {
		Code:        50000,
		Display:     "BACKEND PROBLEM",
		Description: "Problem with processor backend",
		IsRetriable: true,
		Category:    pkgerrors.CategorySystemError,
		UserMessage: "Payment could not be completed. Please try again shortly.",
	},
	50102: {
		Code:               50102,
		Display:            "CARD DECLINED",
		Description:        "Card declined by authorization system",
		RequiresUserAction: true,
		Category:           pkgerrors.CategoryDeclined,
		UserMessage:        "Your card was declined. Please use a different payment method.",
	},
	50103: {
		Code:        50103,
		Display:     "SUSPECTED MANIPULATION",
		Description: "Manipulation or stolen card suspected",
		Category:    pkgerrors.CategoryDeclined,
		UserMessage: "Payment was declined for security reasons. Please contact your bank.",
	},
	50200: {
		Code:        50200,
		Display:     "PREAUTH EXPIRED",
		Description: "Pre-authorization expired",
		IsRetriable: true,
		Category:    pkgerrors.CategoryDeclined,
		UserMessage: "Payment reservation expired. Please try again.",
	},
}

// GetResponseCode returns detailed information for a processor response
// code. Unknown codes fall back to a generic declined entry carrying the
// raw code.
func GetResponseCode(code int) ResponseCodeInfo {
	if info, ok := responseCodes[code]; ok {
		return info
	}
	return ResponseCodeInfo{
		Code:        code,
		Display:     "UNKNOWN",
		Description: "Unknown response code",
		Category:    pkgerrors.CategoryDeclined,
		UserMessage: "Payment failed. Please try again or use a different payment method.",
	}
}

// ToGatewayError builds a GatewayError for a non-success response code,
// attaching the raw payload for server-side diagnostics.
func (info ResponseCodeInfo) ToGatewayError(operation string, payload []byte) *pkgerrors.GatewayError {
	return &pkgerrors.GatewayError{
		Operation:    operation,
		ResponseCode: info.Code,
		Message:      info.Description,
		UserMessage:  info.UserMessage,
		Payload:      payload,
		Category:     info.Category,
		Retriable:    info.IsRetriable,
	}
}
