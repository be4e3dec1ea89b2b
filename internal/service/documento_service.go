package service

import (
	"bytes"
	"context"
	"errors"

	"facturapp/internal/infra"
	"facturapp/internal/repository"
	"facturapp/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentoService renders invoice and receipt PDFs and queues invoice emails.
type DocumentoService interface {
	FacturaPDF(ctx context.Context, usuarioID, facturaID uuid.UUID) ([]byte, string, error)
	ReciboPDF(ctx context.Context, usuarioID, pagoID uuid.UUID) ([]byte, string, error)
	// EnviarFactura queues PDF generation and delivery. email overrides the
	// customer's address when non-empty.
	EnviarFactura(ctx context.Context, usuarioID, facturaID uuid.UUID, email string) error
}

type documentoService struct {
	facturaRepo repository.FacturaRepository
	pagoRepo    repository.PagoRepository
	clienteRepo repository.ClienteRepository
	usuarioRepo repository.UsuarioRepository
	dispatcher  *worker.Dispatcher
}

func NewDocumentoService(
	facturaRepo repository.FacturaRepository,
	pagoRepo repository.PagoRepository,
	clienteRepo repository.ClienteRepository,
	usuarioRepo repository.UsuarioRepository,
	dispatcher *worker.Dispatcher,
) DocumentoService {
	return &documentoService{
		facturaRepo: facturaRepo,
		pagoRepo:    pagoRepo,
		clienteRepo: clienteRepo,
		usuarioRepo: usuarioRepo,
		dispatcher:  dispatcher,
	}
}

func (s *documentoService) FacturaPDF(ctx context.Context, usuarioID, facturaID uuid.UUID) ([]byte, string, error) {
	f, err := s.facturaRepo.FindByID(ctx, usuarioID, facturaID)
	if err != nil {
		return nil, "", notFound(err, ErrFacturaNoEncontrada)
	}
	if f.ClienteID != nil {
		if c, err := s.clienteRepo.FindByID(ctx, usuarioID, *f.ClienteID); err == nil {
			f.Cliente = c
		}
	}
	negocio, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, "", err
	}
	pagado, err := s.pagoRepo.SumByFacturaTx(ctx, nil, facturaID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := infra.RenderFacturaPDF(&buf, negocio, f, pagado); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), f.Numero + ".pdf", nil
}

func (s *documentoService) ReciboPDF(ctx context.Context, usuarioID, pagoID uuid.UUID) ([]byte, string, error) {
	p, err := s.pagoRepo.FindByID(ctx, usuarioID, pagoID)
	if err != nil {
		return nil, "", notFound(err, ErrPagoNoEncontrado)
	}
	f, err := s.facturaRepo.FindByID(ctx, usuarioID, p.FacturaID)
	if err != nil {
		return nil, "", notFound(err, ErrFacturaNoEncontrada)
	}
	negocio, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, "", err
	}
	pagado, err := s.pagoRepo.SumByFacturaTx(ctx, nil, f.ID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	saldo := decimal.Max(decimal.Zero, f.Total.Sub(pagado))
	if err := infra.RenderReciboPDF(&buf, negocio, f, p, saldo); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "recibo-" + f.Numero + "-" + p.ID.String()[:8] + ".pdf", nil
}

func (s *documentoService) EnviarFactura(ctx context.Context, usuarioID, facturaID uuid.UUID, email string) error {
	f, err := s.facturaRepo.FindByID(ctx, usuarioID, facturaID)
	if err != nil {
		return notFound(err, ErrFacturaNoEncontrada)
	}
	if email == "" && f.ClienteID != nil {
		if c, err := s.clienteRepo.FindByID(ctx, usuarioID, *f.ClienteID); err == nil && c.Email != nil {
			email = *c.Email
		}
	}
	if email == "" {
		return ErrSinEmail
	}
	if s.dispatcher == nil {
		return errors.New("cola de trabajos no disponible")
	}
	return s.dispatcher.EnqueueDocumento(ctx, worker.DocumentoJobPayload{
		UsuarioID: usuarioID.String(),
		FacturaID: facturaID.String(),
		Email:     email,
	})
}
