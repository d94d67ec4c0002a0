package auth

// Kind classifies a FieldError.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindAuth
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// FieldError is a single business failure tied to an input field.
type FieldError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Result is the outcome of Register and Login: either a user or the
// field errors explaining why there is none.
type Result struct {
	User   *User
	Errors []FieldError
}

func failure(kind Kind, field, message string) Result {
	return Result{Errors: []FieldError{{Kind: kind, Field: field, Message: message}}}
}

const (
	msgUsernameTooShort = "username is too short"
	msgPasswordTooShort = "password is too short"
	msgUsernameTaken    = "username already exists"
	msgUnknownUsername  = "username does not exist"
	msgFailedLogin      = "failed login"
)
