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

type ProductoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, usuarioID, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error
}

type productoService struct {
	repo      repository.ProductoRepository
	refresher Refresher
}

func NewProductoService(repo repository.ProductoRepository, refresher Refresher) ProductoService {
	return &productoService{repo: repo, refresher: refresherOrNoop(refresher)}
}

func (s *productoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" || req.Precio.IsNegative() {
		return nil, ErrProductoInvalido
	}
	p := &model.Producto{UsuarioID: usuarioID, StockActual: req.StockActual}
	aplicarProductoRequest(p, req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.refresher.Invalidar(ctx, usuarioID, infra.VistaProductos, infra.VistaDashboard)
	return productoToResponse(p), nil
}

func (s *productoService) Obtener(ctx context.Context, usuarioID, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, usuarioID, id)
	if err != nil {
		return nil, notFound(err, ErrProductoNoEncontrado)
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, usuarioID, filter)
	if err != nil {
		return nil, err
	}
	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	resp := &dto.ProductoListResponse{
		Data:       make([]dto.ProductoResponse, 0, len(productos)),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}
	for i := range productos {
		resp.Data = append(resp.Data, *productoToResponse(&productos[i]))
	}
	return resp, nil
}

// Actualizar edits the catalog fields. Stock is not touched here; use the
// manual adjustment so the change is audited.
func (s *productoService) Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" || req.Precio.IsNegative() {
		return nil, ErrProductoInvalido
	}
	p, err := s.repo.FindByID(ctx, usuarioID, id)
	if err != nil {
		return nil, notFound(err, ErrProductoNoEncontrado)
	}
	aplicarProductoRequest(p, req)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.refresher.Invalidar(ctx, usuarioID, infra.VistaProductos, infra.VistaDashboard)
	return productoToResponse(p), nil
}

// Eliminar deletes the product; invoice lines keep their description and
// lose the link (ON DELETE SET NULL).
func (s *productoService) Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, usuarioID, id); err != nil {
		return notFound(err, ErrProductoNoEncontrado)
	}
	s.refresher.Invalidar(ctx, usuarioID, infra.VistaProductos, infra.VistaDashboard)
	return nil
}

func aplicarProductoRequest(p *model.Producto, req dto.ProductoRequest) {
	p.Nombre = strings.TrimSpace(req.Nombre)
	p.Descripcion = req.Descripcion
	p.SKU = req.SKU
	p.Categoria = req.Categoria
	p.Precio = req.Precio
	p.Costo = req.Costo
	p.ControlarInventario = req.ControlarInventario
	p.StockMinimo = req.StockMinimo
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:                  p.ID.String(),
		Nombre:              p.Nombre,
		Descripcion:         p.Descripcion,
		SKU:                 p.SKU,
		Categoria:           p.Categoria,
		Precio:              p.Precio,
		Costo:               p.Costo,
		ControlarInventario: p.ControlarInventario,
		StockActual:         p.StockActual,
		StockMinimo:         p.StockMinimo,
		BajoStock:           p.BajoStock(),
	}
}
