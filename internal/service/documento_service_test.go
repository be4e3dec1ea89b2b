package service_test

import (
	"context"
	"testing"

	"facturapp/internal/model"
	"facturapp/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *entorno) documentos() service.DocumentoService {
	usuarios := newStubUsuarioRepo()
	usuarios.usuarios[e.usuarioID] = &model.Usuario{ID: e.usuarioID, Email: "dueno@colmado.do", NombreNegocio: "Colmado La Esquina", Activo: true}
	return service.NewDocumentoService(e.facturas, e.pagos, e.clientes, usuarios, nil)
}

func TestFacturaPDF(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	c := e.clientes.add(e.usuarioID, "Ferretería Ochoa", false, 0, 0)
	id := e.facturaDeMil(t, c, "sent")

	pdf, nombre, err := e.documentos().FacturaPDF(ctx, e.usuarioID, id)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001.pdf", nombre)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	_, _, err = e.documentos().FacturaPDF(ctx, uuid.New(), id)
	assert.ErrorIs(t, err, service.ErrFacturaNoEncontrada)
}

func TestReciboPDF(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	id := e.facturaDeMil(t, nil, "sent")
	p, err := e.pagoSvc.RegistrarPago(ctx, e.usuarioID, id, pagoReq("250"))
	require.NoError(t, err)

	pdf, nombre, err := e.documentos().ReciboPDF(ctx, e.usuarioID, uid(t, p.ID))
	require.NoError(t, err)
	assert.Contains(t, nombre, "recibo-INV-0001-")
	assert.Equal(t, "%PDF", string(pdf[:4]))

	_, _, err = e.documentos().ReciboPDF(ctx, e.usuarioID, uuid.New())
	assert.ErrorIs(t, err, service.ErrPagoNoEncontrado)
}

func TestEnviarFactura_SinDestino(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	c := e.clientes.add(e.usuarioID, "Sin correo", false, 0, 0)
	id := e.facturaDeMil(t, c, "sent")

	err := e.documentos().EnviarFactura(ctx, e.usuarioID, id, "")
	assert.ErrorIs(t, err, service.ErrSinEmail)

	err = e.documentos().EnviarFactura(ctx, e.usuarioID, uuid.New(), "a@b.do")
	assert.ErrorIs(t, err, service.ErrFacturaNoEncontrada)

	// With an address but no queue the request cannot be accepted.
	err = e.documentos().EnviarFactura(ctx, e.usuarioID, id, "a@b.do")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrSinEmail)
}
