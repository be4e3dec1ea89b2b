package service_test

import (
	"context"
	"sort"
	"time"

	"facturapp/internal/dto"
	"facturapp/internal/model"
	"facturapp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil so runTx calls fn(nil) directly.
// Misses return gorm.ErrRecordNotFound, like the GORM implementations.

// stubProductoRepo is an in-memory ProductoRepository for testing.
type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) add(usuarioID uuid.UUID, nombre string, stock int, controlar bool) *model.Producto {
	p := &model.Producto{
		ID:                  uuid.New(),
		UsuarioID:           usuarioID,
		Nombre:              nombre,
		Precio:              decimal.NewFromInt(100),
		ControlarInventario: controlar,
		StockActual:         stock,
		StockMinimo:         5,
	}
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, usuarioID, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok || p.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByIDTx(ctx context.Context, _ *gorm.DB, usuarioID, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(ctx, usuarioID, id)
}

func (r *stubProductoRepo) List(_ context.Context, usuarioID uuid.UUID, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.UsuarioID == usuarioID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, usuarioID, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok || p.UsuarioID != usuarioID {
		return gorm.ErrRecordNotFound
	}
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) Count(_ context.Context, usuarioID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.productos {
		if p.UsuarioID == usuarioID {
			n++
		}
	}
	return n, nil
}

func (r *stubProductoRepo) CountBajoStock(_ context.Context, usuarioID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.productos {
		if p.UsuarioID == usuarioID && p.BajoStock() {
			n++
		}
	}
	return n, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ context.Context, _ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual += delta
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubMovimientoRepo is an in-memory MovimientoStockRepository.
type stubMovimientoRepo struct {
	movs []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ context.Context, _ *gorm.DB, m *model.MovimientoStock) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movs = append(r.movs, *m)
	return nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, usuarioID, productoID uuid.UUID, _, _ int) ([]model.MovimientoStock, int64, error) {
	var out []model.MovimientoStock
	for _, m := range r.movs {
		if m.UsuarioID == usuarioID && m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// stubClienteRepo is an in-memory ClienteRepository.
type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) add(usuarioID uuid.UUID, nombre string, financiado bool, limite, usado int64) *model.Cliente {
	c := &model.Cliente{
		ID:                       uuid.New(),
		UsuarioID:                usuarioID,
		Nombre:                   nombre,
		FinanciamientoDisponible: financiado,
		LimiteFinanciamiento:     decimal.NewFromInt(limite),
		FinanciamientoUsado:      decimal.NewFromInt(usado),
	}
	r.clientes[c.ID] = c
	return c
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, usuarioID, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok || c.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) FindByIDTx(ctx context.Context, _ *gorm.DB, usuarioID, id uuid.UUID) (*model.Cliente, error) {
	return r.FindByID(ctx, usuarioID, id)
}

func (r *stubClienteRepo) List(_ context.Context, usuarioID uuid.UUID, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if c.UsuarioID == usuarioID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, usuarioID, id uuid.UUID) error {
	c, ok := r.clientes[id]
	if !ok || c.UsuarioID != usuarioID {
		return gorm.ErrRecordNotFound
	}
	delete(r.clientes, id)
	return nil
}

func (r *stubClienteRepo) Count(_ context.Context, usuarioID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.clientes {
		if c.UsuarioID == usuarioID {
			n++
		}
	}
	return n, nil
}

func (r *stubClienteRepo) SumFinanciamientoUsado(_ context.Context, usuarioID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range r.clientes {
		if c.UsuarioID == usuarioID {
			total = total.Add(c.FinanciamientoUsado)
		}
	}
	return total, nil
}

func (r *stubClienteRepo) UpdateFinanciamientoUsadoTx(_ context.Context, _ *gorm.DB, id uuid.UUID, usado decimal.Decimal) error {
	c, ok := r.clientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.FinanciamientoUsado = usado
	return nil
}

func (r *stubClienteRepo) DB() *gorm.DB { return nil }

func (r *stubClienteRepo) usado(id uuid.UUID) decimal.Decimal {
	return r.clientes[id].FinanciamientoUsado
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// stubFacturaRepo is an in-memory FacturaRepository with a per-tenant counter.
type stubFacturaRepo struct {
	facturas   map[uuid.UUID]*model.Factura
	secuencias map[uuid.UUID]int64
}

func newStubFacturaRepo() *stubFacturaRepo {
	return &stubFacturaRepo{
		facturas:   make(map[uuid.UUID]*model.Factura),
		secuencias: make(map[uuid.UUID]int64),
	}
}

func copiarFactura(f *model.Factura) *model.Factura {
	cp := *f
	cp.Items = append([]model.FacturaItem(nil), f.Items...)
	return &cp
}

func (r *stubFacturaRepo) FindByID(_ context.Context, usuarioID, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.facturas[id]
	if !ok || f.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	return copiarFactura(f), nil
}

func (r *stubFacturaRepo) FindByIDTx(ctx context.Context, _ *gorm.DB, usuarioID, id uuid.UUID) (*model.Factura, error) {
	return r.FindByID(ctx, usuarioID, id)
}

func (r *stubFacturaRepo) List(ctx context.Context, usuarioID uuid.UUID, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	all, _ := r.ListAll(ctx, usuarioID)
	var out []model.Factura
	for _, f := range all {
		if filter.Estado == "" || string(f.Estado) == filter.Estado {
			out = append(out, f)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubFacturaRepo) ListAll(_ context.Context, usuarioID uuid.UUID) ([]model.Factura, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if f.UsuarioID == usuarioID {
			out = append(out, *copiarFactura(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, nil
}

func (r *stubFacturaRepo) ListVencibles(_ context.Context, hoy time.Time) ([]model.Factura, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if f.Estado == model.EstadoEnviada && f.FechaVencimiento != nil && f.FechaVencimiento.Before(hoy) {
			out = append(out, *copiarFactura(f))
		}
	}
	return out, nil
}

func (r *stubFacturaRepo) Count(_ context.Context, usuarioID uuid.UUID) (int64, error) {
	var n int64
	for _, f := range r.facturas {
		if f.UsuarioID == usuarioID {
			n++
		}
	}
	return n, nil
}

func (r *stubFacturaRepo) NextNumeroTx(_ context.Context, _ *gorm.DB, usuarioID uuid.UUID) (int64, error) {
	r.secuencias[usuarioID]++
	return r.secuencias[usuarioID], nil
}

func (r *stubFacturaRepo) CreateTx(_ context.Context, _ *gorm.DB, f *model.Factura) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	for i := range f.Items {
		if f.Items[i].ID == uuid.Nil {
			f.Items[i].ID = uuid.New()
		}
	}
	f.CreatedAt = time.Now()
	r.facturas[f.ID] = copiarFactura(f)
	return nil
}

func (r *stubFacturaRepo) UpdateTx(_ context.Context, _ *gorm.DB, f *model.Factura) error {
	if _, ok := r.facturas[f.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.facturas[f.ID] = copiarFactura(f)
	return nil
}

func (r *stubFacturaRepo) ReplaceItemsTx(_ context.Context, _ *gorm.DB, facturaID uuid.UUID, items []model.FacturaItem) error {
	f, ok := r.facturas[facturaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.Items = make([]model.FacturaItem, len(items))
	for i, it := range items {
		it.ID = uuid.New()
		it.FacturaID = facturaID
		f.Items[i] = it
	}
	return nil
}

func (r *stubFacturaRepo) UpdateEstadoTx(_ context.Context, _ *gorm.DB, id uuid.UUID, estado model.EstadoFactura) error {
	f, ok := r.facturas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.Estado = estado
	return nil
}

func (r *stubFacturaRepo) DeleteTx(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.facturas, id)
	return nil
}

func (r *stubFacturaRepo) DB() *gorm.DB { return nil }

func (r *stubFacturaRepo) estado(id uuid.UUID) model.EstadoFactura {
	return r.facturas[id].Estado
}

var _ repository.FacturaRepository = (*stubFacturaRepo)(nil)

// stubPagoRepo is an in-memory PagoRepository. FindByID checks ownership
// through the invoice stub, like the JOIN in the GORM version.
type stubPagoRepo struct {
	pagos    map[uuid.UUID]*model.Pago
	facturas *stubFacturaRepo
}

func newStubPagoRepo(facturas *stubFacturaRepo) *stubPagoRepo {
	return &stubPagoRepo{pagos: make(map[uuid.UUID]*model.Pago), facturas: facturas}
}

func (r *stubPagoRepo) FindByID(_ context.Context, usuarioID, id uuid.UUID) (*model.Pago, error) {
	p, ok := r.pagos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	f, ok := r.facturas.facturas[p.FacturaID]
	if !ok || f.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPagoRepo) ListByFactura(_ context.Context, facturaID uuid.UUID) ([]model.Pago, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if p.FacturaID == facturaID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPagoRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Pago) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	r.pagos[p.ID] = &cp
	return nil
}

func (r *stubPagoRepo) SumByFacturaTx(_ context.Context, _ *gorm.DB, facturaID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.pagos {
		if p.FacturaID == facturaID {
			total = total.Add(p.Monto)
		}
	}
	return total, nil
}

func (r *stubPagoRepo) DeleteTx(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.pagos, id)
	return nil
}

func (r *stubPagoRepo) DeleteByFacturaTx(_ context.Context, _ *gorm.DB, facturaID uuid.UUID) error {
	for id, p := range r.pagos {
		if p.FacturaID == facturaID {
			delete(r.pagos, id)
		}
	}
	return nil
}

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

// stubPagoFinRepo is an in-memory PagoFinanciamientoRepository.
type stubPagoFinRepo struct {
	pagos map[uuid.UUID]*model.PagoFinanciamiento
}

func newStubPagoFinRepo() *stubPagoFinRepo {
	return &stubPagoFinRepo{pagos: make(map[uuid.UUID]*model.PagoFinanciamiento)}
}

func (r *stubPagoFinRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]model.PagoFinanciamiento, error) {
	var out []model.PagoFinanciamiento
	for _, p := range r.pagos {
		if p.ClienteID == clienteID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPagoFinRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.PagoFinanciamiento) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	r.pagos[p.ID] = &cp
	return nil
}

func (r *stubPagoFinRepo) FindByIDTx(_ context.Context, _ *gorm.DB, clienteID, id uuid.UUID) (*model.PagoFinanciamiento, error) {
	p, ok := r.pagos[id]
	if !ok || p.ClienteID != clienteID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPagoFinRepo) SumByFacturaTx(_ context.Context, _ *gorm.DB, clienteID, facturaID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.pagos {
		if p.ClienteID == clienteID && p.FacturaID != nil && *p.FacturaID == facturaID {
			total = total.Add(p.Monto)
		}
	}
	return total, nil
}

func (r *stubPagoFinRepo) DeleteTx(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.pagos, id)
	return nil
}

var _ repository.PagoFinanciamientoRepository = (*stubPagoFinRepo)(nil)

// stubGastoRepo is an in-memory GastoRepository.
type stubGastoRepo struct {
	gastos map[uuid.UUID]*model.Gasto
}

func newStubGastoRepo() *stubGastoRepo {
	return &stubGastoRepo{gastos: make(map[uuid.UUID]*model.Gasto)}
}

func (r *stubGastoRepo) Create(_ context.Context, g *model.Gasto) error {
	g.ID = uuid.New()
	g.CreatedAt = time.Now()
	cp := *g
	r.gastos[g.ID] = &cp
	return nil
}

func (r *stubGastoRepo) FindByID(_ context.Context, usuarioID, id uuid.UUID) (*model.Gasto, error) {
	g, ok := r.gastos[id]
	if !ok || g.UsuarioID != usuarioID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *stubGastoRepo) List(ctx context.Context, usuarioID uuid.UUID, _ dto.GastoFilter) ([]model.Gasto, int64, error) {
	out, _ := r.ListAll(ctx, usuarioID)
	return out, int64(len(out)), nil
}

func (r *stubGastoRepo) ListAll(_ context.Context, usuarioID uuid.UUID) ([]model.Gasto, error) {
	var out []model.Gasto
	for _, g := range r.gastos {
		if g.UsuarioID == usuarioID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *stubGastoRepo) Update(_ context.Context, g *model.Gasto) error {
	cp := *g
	r.gastos[g.ID] = &cp
	return nil
}

func (r *stubGastoRepo) Delete(_ context.Context, usuarioID, id uuid.UUID) error {
	g, ok := r.gastos[id]
	if !ok || g.UsuarioID != usuarioID {
		return gorm.ErrRecordNotFound
	}
	delete(r.gastos, id)
	return nil
}

var _ repository.GastoRepository = (*stubGastoRepo)(nil)

// stubUsuarioRepo is an in-memory UsuarioRepository.
type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uuid.New()
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Email == email && u.Activo {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// spyRefresher records invalidated views.
type spyRefresher struct {
	vistas []string
}

func (s *spyRefresher) Invalidar(_ context.Context, _ uuid.UUID, vistas ...string) {
	s.vistas = append(s.vistas, vistas...)
}
