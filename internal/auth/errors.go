// Package auth - errors.go defines sentinel authentication errors and their
// user-facing messages. Handlers compare with errors.Is rather than matching
// on message text, so wire messages can stay localized without affecting
// control flow.
package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when email/password verification fails.
	// Intentionally identical for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering with an email that already has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrUnauthenticated is returned when a request carries no valid session
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUnassigned is returned when an authenticated non-master user has no
	// church assignment; tenant-scoped routes refuse until one is granted.
	ErrUnassigned = errors.New("account has no church assignment")

	// ErrForbidden is returned when the session lacks the role a route requires
	ErrForbidden = errors.New("insufficient role")
)

// UserMessage maps an authentication error to the localized message shown to
// end users. Unknown errors get a generic message so internals never leak.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Email ou senha incorretos"
	case errors.Is(err, ErrEmailTaken):
		return "Este email já está cadastrado"
	case errors.Is(err, ErrUnauthenticated):
		return "Faça login para continuar"
	case errors.Is(err, ErrUnassigned):
		return "Sua conta ainda não está vinculada a uma igreja"
	case errors.Is(err, ErrForbidden):
		return "Você não tem permissão para acessar este recurso"
	default:
		return "Erro ao processar a solicitação"
	}
}
