package service

import (
	"context"
	"strings"

	"facturapp/internal/dto"
	"facturapp/internal/infra"
	"facturapp/internal/model"
	"facturapp/internal/repository"

	"github.com/google/uuid"
)

type GastoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error)
	Obtener(ctx context.Context, usuarioID, id uuid.UUID) (*dto.GastoResponse, error)
	Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.GastoFilter) (*dto.GastoListResponse, error)
	Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error)
	Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error
}

type gastoService struct {
	repo      repository.GastoRepository
	refresher Refresher
}

func NewGastoService(repo repository.GastoRepository, refresher Refresher) GastoService {
	return &gastoService{repo: repo, refresher: refresherOrNoop(refresher)}
}

var vistasGasto = []string{infra.VistaGastos, infra.VistaReportes, infra.VistaDashboard}

func (s *gastoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error) {
	g := &model.Gasto{UsuarioID: usuarioID}
	if err := aplicarGastoRequest(g, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	s.refresher.Invalidar(ctx, usuarioID, vistasGasto...)
	return gastoToResponse(g), nil
}

func (s *gastoService) Obtener(ctx context.Context, usuarioID, id uuid.UUID) (*dto.GastoResponse, error) {
	g, err := s.repo.FindByID(ctx, usuarioID, id)
	if err != nil {
		return nil, notFound(err, ErrGastoNoEncontrado)
	}
	return gastoToResponse(g), nil
}

func (s *gastoService) Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.GastoFilter) (*dto.GastoListResponse, error) {
	gastos, total, err := s.repo.List(ctx, usuarioID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.GastoListResponse{
		Data:  make([]dto.GastoResponse, 0, len(gastos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range gastos {
		resp.Data = append(resp.Data, *gastoToResponse(&gastos[i]))
	}
	return resp, nil
}

func (s *gastoService) Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error) {
	g, err := s.repo.FindByID(ctx, usuarioID, id)
	if err != nil {
		return nil, notFound(err, ErrGastoNoEncontrado)
	}
	if err := aplicarGastoRequest(g, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	s.refresher.Invalidar(ctx, usuarioID, vistasGasto...)
	return gastoToResponse(g), nil
}

func (s *gastoService) Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, usuarioID, id); err != nil {
		return notFound(err, ErrGastoNoEncontrado)
	}
	s.refresher.Invalidar(ctx, usuarioID, vistasGasto...)
	return nil
}

func aplicarGastoRequest(g *model.Gasto, req dto.GastoRequest) error {
	if !model.EsCategoriaGasto(req.Categoria) || strings.TrimSpace(req.Descripcion) == "" || !req.Monto.IsPositive() {
		return ErrGastoInvalido
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return ErrGastoInvalido
	}
	g.Categoria = req.Categoria
	g.Descripcion = strings.TrimSpace(req.Descripcion)
	g.Monto = req.Monto
	g.Fecha = fecha
	g.MetodoPago = req.MetodoPago
	g.ReciboURL = req.ReciboURL
	g.Notas = req.Notas
	return nil
}

func gastoToResponse(g *model.Gasto) *dto.GastoResponse {
	return &dto.GastoResponse{
		ID:          g.ID.String(),
		Categoria:   g.Categoria,
		Descripcion: g.Descripcion,
		Monto:       g.Monto,
		Fecha:       g.Fecha.Format(fechaLayout),
		MetodoPago:  g.MetodoPago,
		ReciboURL:   g.ReciboURL,
		Notas:       g.Notas,
		CreatedAt:   g.CreatedAt.Format(timeLayout),
	}
}
