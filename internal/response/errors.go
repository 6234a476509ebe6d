package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminKeyInvalid ErrCode = "ADMIN_KEY_INVALID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Hunt-specific ─────────────────────────────────────────────────
	ErrHuntNotAvailable      ErrCode = "HUNT_NOT_AVAILABLE"
	ErrInvalidHuntDefinition ErrCode = "INVALID_HUNT_DEFINITION"
	ErrHuntNotDraft          ErrCode = "HUNT_NOT_DRAFT"
	ErrProgressExists        ErrCode = "PROGRESS_EXISTS"
	ErrNoProgress            ErrCode = "NO_PROGRESS"
	ErrHuntCompleted         ErrCode = "HUNT_ALREADY_COMPLETED"
	ErrSessionNotActive      ErrCode = "SESSION_NOT_ACTIVE"
	ErrEvidenceMismatch      ErrCode = "EVIDENCE_MISMATCH"
	ErrNoHint                ErrCode = "NO_HINT"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminKeyInvalid:
		return "A valid operator API key is required."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Hunt-specific ─────────────────────────────────────────────────
	case ErrHuntNotAvailable:
		return "This hunt is not currently available."
	case ErrInvalidHuntDefinition:
		return "The hunt definition is invalid."
	case ErrHuntNotDraft:
		return "This hunt is not in DRAFT status."
	case ErrProgressExists:
		return "A hunt attempt is already in progress. Resume or restart it explicitly."
	case ErrNoProgress:
		return "There is no saved attempt for this hunt."
	case ErrHuntCompleted:
		return "This hunt has already been completed."
	case ErrSessionNotActive:
		return "The hunt session is not active."
	case ErrEvidenceMismatch:
		return "The submitted evidence does not match what the current clue requires."
	case ErrNoHint:
		return "The current clue has no hint."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "The file type is not supported."
	case ErrFileTooLarge:
		return "The file size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
