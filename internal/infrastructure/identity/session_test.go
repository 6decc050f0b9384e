package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/entity"
	"github.com/ninzkie1/buildAble-sub000/internal/infrastructure/identity"
	pkgjwt "github.com/ninzkie1/buildAble-sub000/pkg/jwt"
)

const testSecret = "secreto-de-test"

func validToken(t *testing.T) string {
	t.Helper()
	token, err := pkgjwt.Generate(testSecret, "u1", "u1@tienda.test", "storefront", 60)
	require.NoError(t, err)
	return token
}

func TestSessionManager_ArrancaComoInvitado(t *testing.T) {
	mgr := identity.NewSessionManager(testSecret)

	id := mgr.Current()
	assert.False(t, id.Authenticated)
	assert.Empty(t, mgr.Token(), "sesión invitada no tiene bearer token")
}

func TestLogin_TokenValidoFijaLaIdentidad(t *testing.T) {
	mgr := identity.NewSessionManager(testSecret)
	token := validToken(t)

	require.NoError(t, mgr.Login(token))

	id := mgr.Current()
	assert.True(t, id.Authenticated)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "u1@tienda.test", id.Email)
	assert.Equal(t, token, mgr.Token())
}

func TestLogin_FirmaIncorrectaFalla(t *testing.T) {
	otherSecret, err := pkgjwt.Generate("otro-secreto", "u1", "u1@tienda.test", "storefront", 60)
	require.NoError(t, err)

	mgr := identity.NewSessionManager(testSecret)

	assert.Error(t, mgr.Login(otherSecret))
	assert.False(t, mgr.Current().Authenticated, "un login fallido no cambia la identidad")
}

func TestLogin_TokenExpiradoFalla(t *testing.T) {
	expired, err := pkgjwt.Generate(testSecret, "u1", "u1@tienda.test", "storefront", -5)
	require.NoError(t, err)

	mgr := identity.NewSessionManager(testSecret)

	assert.Error(t, mgr.Login(expired))
}

func TestLogin_NotificaALosSuscriptores(t *testing.T) {
	mgr := identity.NewSessionManager(testSecret)

	var seen []entity.Identity
	mgr.Subscribe(func(id entity.Identity) { seen = append(seen, id) })

	require.NoError(t, mgr.Login(validToken(t)))

	require.Len(t, seen, 1)
	assert.True(t, seen[0].Authenticated)
	assert.Equal(t, "u1", seen[0].UserID)
}

func TestLogout_LimpiaTodoElContextoDeSesion(t *testing.T) {
	mgr := identity.NewSessionManager(testSecret)
	require.NoError(t, mgr.Login(validToken(t)))
	mgr.SaveAddress(entity.ShippingAddress{
		Street: "Calle 1", City: "Bogotá", State: "Cund.",
		PostalCode: "110111", Country: "CO",
	})
	mgr.SavePendingOrder("ord-1")

	var notified int
	mgr.Subscribe(func(entity.Identity) { notified++ })

	mgr.Logout()

	assert.False(t, mgr.Current().Authenticated)
	_, hasAddr := mgr.Address()
	assert.False(t, hasAddr, "la dirección guardada no sobrevive el logout")
	_, hasPending := mgr.PendingOrder()
	assert.False(t, hasPending)
	assert.Equal(t, 1, notified, "el logout notifica el cambio de identidad")
}

func TestSaveAddress_PersisteYSeRecupera(t *testing.T) {
	mgr := identity.NewSessionManager(testSecret)
	addr := entity.ShippingAddress{
		Street: "Calle 1", City: "Bogotá", State: "Cund.",
		PostalCode: "110111", Country: "CO",
	}

	mgr.SaveAddress(addr)

	got, ok := mgr.Address()
	require.True(t, ok)
	assert.Equal(t, addr, got)
}
