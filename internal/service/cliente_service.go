package service

import (
	"context"
	"strings"

	"facturapp/internal/dto"
	"facturapp/internal/infra"
	"facturapp/internal/model"
	"facturapp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ClienteService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, usuarioID, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error
}

type clienteService struct {
	repo      repository.ClienteRepository
	refresher Refresher
}

func NewClienteService(repo repository.ClienteRepository, refresher Refresher) ClienteService {
	return &clienteService{repo: repo, refresher: refresherOrNoop(refresher)}
}

func (s *clienteService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, ErrClienteInvalido
	}
	c := &model.Cliente{UsuarioID: usuarioID, FinanciamientoUsado: decimal.Zero}
	aplicarClienteRequest(c, req)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.refresher.Invalidar(ctx, usuarioID, infra.VistaClientes, infra.VistaDashboard)
	return clienteToResponse(c), nil
}

func (s *clienteService) Obtener(ctx context.Context, usuarioID, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, usuarioID, id)
	if err != nil {
		return nil, notFound(err, ErrClienteNoEncontrado)
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	clientes, total, err := s.repo.List(ctx, usuarioID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ClienteListResponse{
		Data:  make([]dto.ClienteResponse, 0, len(clientes)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range clientes {
		resp.Data = append(resp.Data, *clienteToResponse(&clientes[i]))
	}
	return resp, nil
}

// Actualizar edits profile and financing terms. The used balance is kept and
// the new limit may not drop below it.
func (s *clienteService) Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, ErrClienteInvalido
	}
	c, err := s.repo.FindByID(ctx, usuarioID, id)
	if err != nil {
		return nil, notFound(err, ErrClienteNoEncontrado)
	}
	aplicarClienteRequest(c, req)
	if c.FinanciamientoDisponible && c.LimiteFinanciamiento.LessThan(c.FinanciamientoUsado) {
		return nil, ErrLimiteMenorQueUsado
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.refresher.Invalidar(ctx, usuarioID, infra.VistaClientes, infra.VistaDashboard)
	return clienteToResponse(c), nil
}

// Eliminar removes the customer. Their invoices survive with cliente_id
// cleared (ON DELETE SET NULL) and keep the stored customer name.
func (s *clienteService) Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, usuarioID, id); err != nil {
		return notFound(err, ErrClienteNoEncontrado)
	}
	s.refresher.Invalidar(ctx, usuarioID, infra.VistaClientes, infra.VistaDashboard, infra.VistaFacturas)
	return nil
}

func aplicarClienteRequest(c *model.Cliente, req dto.ClienteRequest) {
	c.Nombre = strings.TrimSpace(req.Nombre)
	c.Email = req.Email
	c.Telefono = req.Telefono
	c.RNC = req.RNC
	c.Direccion = req.Direccion
	c.Notas = req.Notas
	c.FinanciamientoDisponible = req.FinanciamientoDisponible
	c.LimiteFinanciamiento = req.LimiteFinanciamiento
	c.TasaInteres = req.TasaInteres
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:                       c.ID.String(),
		Nombre:                   c.Nombre,
		Email:                    c.Email,
		Telefono:                 c.Telefono,
		RNC:                      c.RNC,
		Direccion:                c.Direccion,
		Notas:                    c.Notas,
		FinanciamientoDisponible: c.FinanciamientoDisponible,
		LimiteFinanciamiento:     c.LimiteFinanciamiento,
		FinanciamientoUsado:      c.FinanciamientoUsado,
		FinanciamientoRestante:   c.FinanciamientoRestante(),
		TasaInteres:              c.TasaInteres,
		CreatedAt:                c.CreatedAt.Format(timeLayout),
	}
}
