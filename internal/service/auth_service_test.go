package service_test

import (
	"context"
	"testing"
	"time"

	"facturapp/internal/config"
	"facturapp/internal/dto"
	"facturapp/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-de-al-menos-32-caracteres!!"

func nuevoAuth() (service.AuthService, *stubUsuarioRepo) {
	repo := newStubUsuarioRepo()
	cfg := &config.Config{JWTSecret: testSecret, JWTExpirationHours: 8, JWTRefreshHours: 24}
	return service.NewAuthService(repo, cfg), repo
}

func claimsDe(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func registro() dto.RegistroRequest {
	return dto.RegistroRequest{Email: " Dueno@Colmado.DO ", Password: "secreto123", NombreNegocio: "Colmado La Esquina"}
}

func TestRegistrar_EmiteTokens(t *testing.T) {
	svc, repo := nuevoAuth()

	resp, err := svc.Registrar(context.Background(), registro())
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "dueno@colmado.do", resp.User.Email)

	acceso := claimsDe(t, resp.AccessToken)
	assert.Equal(t, service.TokenAcceso, acceso["typ"])
	assert.Equal(t, resp.User.ID, acceso["user_id"])
	assert.Equal(t, "Colmado La Esquina", acceso["business_name"])
	assert.Equal(t, service.TokenRefresco, claimsDe(t, resp.RefreshToken)["typ"])

	require.Len(t, repo.usuarios, 1)
	for _, u := range repo.usuarios {
		assert.NotEqual(t, "secreto123", u.PasswordHash)
		assert.True(t, u.Activo)
	}
}

func TestRegistrar_EmailDuplicado(t *testing.T) {
	svc, _ := nuevoAuth()
	ctx := context.Background()

	_, err := svc.Registrar(ctx, registro())
	require.NoError(t, err)
	req := registro()
	req.Email = "DUENO@colmado.do"
	_, err = svc.Registrar(ctx, req)
	assert.ErrorIs(t, err, service.ErrEmailRegistrado)
}

func TestLogin(t *testing.T) {
	svc, _ := nuevoAuth()
	ctx := context.Background()
	_, err := svc.Registrar(ctx, registro())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "dueno@colmado.do", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "dueno@colmado.do", Password: "otra-clave"})
	assert.ErrorIs(t, err, service.ErrCredenciales)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nadie@colmado.do", Password: "secreto123"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestRefresh(t *testing.T) {
	svc, repo := nuevoAuth()
	ctx := context.Background()
	reg, err := svc.Registrar(ctx, registro())
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)

	_, err = svc.Refresh(ctx, reg.AccessToken)
	assert.ErrorIs(t, err, service.ErrTokenInvalido, "un access token no sirve como refresh")

	_, err = svc.Refresh(ctx, "no-es-un-jwt")
	assert.ErrorIs(t, err, service.ErrTokenInvalido)

	vencido := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": reg.User.ID,
		"typ":     service.TokenRefresco,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	firmado, err := vencido.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, firmado)
	assert.ErrorIs(t, err, service.ErrTokenInvalido)

	for _, u := range repo.usuarios {
		u.Activo = false
	}
	_, err = svc.Refresh(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, service.ErrTokenInvalido, "usuario desactivado")
}

func TestActualizarPerfil(t *testing.T) {
	svc, _ := nuevoAuth()
	ctx := context.Background()
	reg, err := svc.Registrar(ctx, registro())
	require.NoError(t, err)
	id := uid(t, reg.User.ID)

	nombre, rnc := "Colmado Nuevo", "131-12345-6"
	perfil, err := svc.ActualizarPerfil(ctx, id, dto.ActualizarPerfilRequest{NombreNegocio: &nombre, RNC: &rnc})
	require.NoError(t, err)
	assert.Equal(t, "Colmado Nuevo", perfil.NombreNegocio)
	require.NotNil(t, perfil.RNC)
	assert.Equal(t, rnc, *perfil.RNC)

	me, err := svc.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Colmado Nuevo", me.NombreNegocio)
}
