package constants

const (
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeMissingParameters   = "MISSING_PARAMETERS"
	ErrCodeInvalidPhoneFormat  = "INVALID_PHONE_FORMAT"
	ErrCodePhoneNotFound       = "PHONE_NOT_FOUND"
	ErrCodeDestinationNotFound = "DESTINATION_NOT_FOUND"
	ErrCodeAccountBusy         = "ACCOUNT_BUSY"
	ErrCodeSendFailed          = "SEND_FAILED"
	ErrCodeRequestTimeout      = "REQUEST_TIMEOUT"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

const (
	ErrMsgInvalidRequestBody  = "failed to parse request body"
	ErrMsgMissingParameters   = "Missing parameters"
	ErrMsgInvalidPhoneFormat  = "Invalid phone number format"
	ErrMsgPhoneNotFound       = "Phone number not found"
	ErrMsgDestinationNotFound = "Destination not found"
	ErrMsgAccountBusy         = "Account is busy processing another request"
	ErrMsgSendFailed          = "Failed to send message"
	ErrMsgRequestTimeout      = "The Telegram operation took too long"
	ErrMsgInternalError       = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeInvalidRequestBody:  ErrMsgInvalidRequestBody,
	ErrCodeMissingParameters:   ErrMsgMissingParameters,
	ErrCodeInvalidPhoneFormat:  ErrMsgInvalidPhoneFormat,
	ErrCodePhoneNotFound:       ErrMsgPhoneNotFound,
	ErrCodeDestinationNotFound: ErrMsgDestinationNotFound,
	ErrCodeAccountBusy:         ErrMsgAccountBusy,
	ErrCodeSendFailed:          ErrMsgSendFailed,
	ErrCodeRequestTimeout:      ErrMsgRequestTimeout,
	ErrCodeInternalError:       ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeMissingParameters, ErrCodeInvalidPhoneFormat:
		return 400
	case ErrCodePhoneNotFound, ErrCodeDestinationNotFound:
		return 404
	case ErrCodeAccountBusy:
		return 429
	case ErrCodeSendFailed:
		return 500
	case ErrCodeRequestTimeout:
		return 504
	case ErrCodeInternalError:
		return 500
	default:
		return 500
	}
}
