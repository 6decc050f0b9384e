package entity

// Identity identidad de la sesión activa: ninguna (invitado) o autenticada
// con token. El proveedor de identidad emite un cambio en login/logout.
type Identity struct {
	Authenticated bool
	Token         string
	UserID        string
	Email         string
}
