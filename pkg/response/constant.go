package response

const (
	// MessageSuccess is the message attached to 2xx envelopes.
	MessageSuccess = "Success"

	// DefaultErrorMessage hides internal error details from clients.
	DefaultErrorMessage = "Something went wrong"

	// InternalServerErrorCode is the envelope error_code for 500 responses.
	InternalServerErrorCode = 500
)
