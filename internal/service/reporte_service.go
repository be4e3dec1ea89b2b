package service

import (
	"bytes"
	"context"
	"time"

	"facturapp/internal/dto"
	"facturapp/internal/infra"
	"facturapp/internal/repository"

	"github.com/google/uuid"
)

// ReporteService recomputes every report from a full scan of the tenant's
// invoices and expenses. Nothing is cached.
type ReporteService interface {
	Resumen(ctx context.Context, usuarioID uuid.UUID, filter dto.ResumenFilter) (*dto.ResumenFinancieroResponse, error)
	Mensual(ctx context.Context, usuarioID uuid.UUID, meses int, ref time.Time) ([]dto.DatosMensualesResponse, error)
	GastosPorCategoria(ctx context.Context, usuarioID uuid.UUID) ([]dto.GastoCategoriaResponse, error)
	Dashboard(ctx context.Context, usuarioID uuid.UUID) (*dto.DashboardResponse, error)
	ExportarXLSX(ctx context.Context, usuarioID uuid.UUID, ref time.Time) ([]byte, error)
}

type reporteService struct {
	facturaRepo  repository.FacturaRepository
	gastoRepo    repository.GastoRepository
	clienteRepo  repository.ClienteRepository
	productoRepo repository.ProductoRepository
}

func NewReporteService(
	facturaRepo repository.FacturaRepository,
	gastoRepo repository.GastoRepository,
	clienteRepo repository.ClienteRepository,
	productoRepo repository.ProductoRepository,
) ReporteService {
	return &reporteService{
		facturaRepo:  facturaRepo,
		gastoRepo:    gastoRepo,
		clienteRepo:  clienteRepo,
		productoRepo: productoRepo,
	}
}

func (s *reporteService) Resumen(ctx context.Context, usuarioID uuid.UUID, filter dto.ResumenFilter) (*dto.ResumenFinancieroResponse, error) {
	var desde, hasta *time.Time
	var err error
	if desde, err = parseFechaOpt(&filter.Desde); err != nil {
		return nil, err
	}
	if hasta, err = parseFechaOpt(&filter.Hasta); err != nil {
		return nil, err
	}

	facturas, err := s.facturaRepo.ListAll(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	gastos, err := s.gastoRepo.ListAll(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	r := ResumirFinanzas(facturas, gastos, desde, hasta)
	return &r, nil
}

func (s *reporteService) Mensual(ctx context.Context, usuarioID uuid.UUID, meses int, ref time.Time) ([]dto.DatosMensualesResponse, error) {
	facturas, err := s.facturaRepo.ListAll(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	gastos, err := s.gastoRepo.ListAll(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return AgruparMensual(facturas, gastos, meses, ref), nil
}

func (s *reporteService) GastosPorCategoria(ctx context.Context, usuarioID uuid.UUID) ([]dto.GastoCategoriaResponse, error) {
	gastos, err := s.gastoRepo.ListAll(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return AgruparPorCategoria(gastos), nil
}

func (s *reporteService) Dashboard(ctx context.Context, usuarioID uuid.UUID) (*dto.DashboardResponse, error) {
	resumen, err := s.Resumen(ctx, usuarioID, dto.ResumenFilter{})
	if err != nil {
		return nil, err
	}
	d := &dto.DashboardResponse{Resumen: *resumen}
	if d.TotalClientes, err = s.clienteRepo.Count(ctx, usuarioID); err != nil {
		return nil, err
	}
	if d.TotalProductos, err = s.productoRepo.Count(ctx, usuarioID); err != nil {
		return nil, err
	}
	if d.TotalFacturas, err = s.facturaRepo.Count(ctx, usuarioID); err != nil {
		return nil, err
	}
	if d.ProductosBajoStock, err = s.productoRepo.CountBajoStock(ctx, usuarioID); err != nil {
		return nil, err
	}
	if d.FinanciamientoPendiente, err = s.clienteRepo.SumFinanciamientoUsado(ctx, usuarioID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *reporteService) ExportarXLSX(ctx context.Context, usuarioID uuid.UUID, ref time.Time) ([]byte, error) {
	facturas, err := s.facturaRepo.ListAll(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	gastos, err := s.gastoRepo.ListAll(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = infra.ExportarReportesXLSX(&buf, infra.ReportesXLSX{
		Resumen:    ResumirFinanzas(facturas, gastos, nil, nil),
		Mensual:    AgruparMensual(facturas, gastos, 12, ref),
		Categorias: AgruparPorCategoria(gastos),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
