package feedstate

import "github.com/socialfeed/api/internal/types"

// Status is the phase of a fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// FetchState is the outcome of loading a T. Only a successful state carries a
// payload and only a failed one carries a message.
type FetchState[T any] struct {
	status  Status
	payload T
	message string
}

func Idle[T any]() FetchState[T] { return FetchState[T]{status: StatusIdle} }

func Loading[T any]() FetchState[T] { return FetchState[T]{status: StatusLoading} }

func Success[T any](payload T) FetchState[T] {
	return FetchState[T]{status: StatusSuccess, payload: payload}
}

func Failure[T any](message string) FetchState[T] {
	return FetchState[T]{status: StatusError, message: message}
}

func (s FetchState[T]) Status() Status { return s.status }

// Payload returns the loaded value when the state is a success.
func (s FetchState[T]) Payload() (T, bool) {
	return s.payload, s.status == StatusSuccess
}

func (s FetchState[T]) Message() string { return s.message }

// AuthKind is the phase of a sign-in.
type AuthKind int

const (
	Unauthenticated AuthKind = iota
	AuthLoading
	Authenticated
	AuthError
)

// AuthState tracks who is signed in on a client.
type AuthState struct {
	Kind    AuthKind
	User    types.UserContext
	Message string
}

// SignedIn returns the authenticated state for user.
func SignedIn(user types.UserContext) AuthState {
	return AuthState{Kind: Authenticated, User: user}
}

// SignInFailed returns the error state with message.
func SignInFailed(message string) AuthState {
	return AuthState{Kind: AuthError, Message: message}
}

// Viewer returns the signed-in user, or the anonymous context.
func (a AuthState) Viewer() types.UserContext {
	if a.Kind != Authenticated {
		return types.UserContext{}
	}
	return a.User
}
