package router

import (
	"facturapp/internal/config"
	"facturapp/internal/handler"
	"facturapp/internal/infra"
	"facturapp/internal/middleware"
	"facturapp/internal/repository"
	"facturapp/internal/service"
	"facturapp/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Servicios is the service layer built once at startup. The server, the
// overdue cron and the admin CLI all share it.
type Servicios struct {
	Auth           service.AuthService
	Clientes       service.ClienteService
	Productos      service.ProductoService
	Inventario     service.InventarioService
	Financiamiento service.FinanciamientoService
	Facturas       service.FacturaService
	Pagos          service.PagoService
	Documentos     service.DocumentoService
	Gastos         service.GastoService
	Reportes       service.ReporteService
	Refresher      *infra.Refresher
}

// NuevosServicios wires repositories into services.
// Dependency graph: Service ← Repository ← DB/Redis
func NuevosServicios(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *Servicios {
	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	pagoFinRepo := repository.NewPagoFinanciamientoRepository(db)
	gastoRepo := repository.NewGastoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	refresher := infra.NewRefresher(rdb)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoStockRepo, refresher)
	financiamientoSvc := service.NewFinanciamientoService(clienteRepo, pagoFinRepo, refresher)

	return &Servicios{
		Auth:           service.NewAuthService(usuarioRepo, cfg),
		Clientes:       service.NewClienteService(clienteRepo, refresher),
		Productos:      service.NewProductoService(productoRepo, refresher),
		Inventario:     inventarioSvc,
		Financiamiento: financiamientoSvc,
		Facturas:       service.NewFacturaService(facturaRepo, pagoRepo, clienteRepo, inventarioSvc, financiamientoSvc, refresher),
		Pagos:          service.NewPagoService(facturaRepo, pagoRepo, financiamientoSvc, refresher),
		Documentos:     service.NewDocumentoService(facturaRepo, pagoRepo, clienteRepo, usuarioRepo, dispatcher),
		Gastos:         service.NewGastoService(gastoRepo, refresher),
		Reportes:       service.NewReporteService(facturaRepo, gastoRepo, clienteRepo, productoRepo),
		Refresher:      refresher,
	}
}

// New returns a configured Gin engine serving svc.
// Dependency graph: Handler ← Service
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svc *Servicios, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svc.Auth)
	clientesH := handler.NewClientesHandler(svc.Clientes, svc.Financiamiento)
	productosH := handler.NewProductosHandler(svc.Productos, svc.Inventario)
	facturasH := handler.NewFacturasHandler(svc.Facturas, svc.Pagos, svc.Documentos)
	gastosH := handler.NewGastosHandler(svc.Gastos)
	reportesH := handler.NewReportesHandler(svc.Reportes)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth", middleware.LoginRateLimiter(rdb))
	{
		auth.POST("/register", authH.Registrar)
		auth.POST("/login", authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes; every record is scoped to the token's user
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), middleware.APIRateLimiter(rdb))
	{
		v1.GET("/auth/me", authH.Me)
		v1.PUT("/auth/me", authH.ActualizarPerfil)

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
			clientes.GET("/:id/pagos-financiamiento", clientesH.ListarPagosFinanciamiento)
			clientes.POST("/:id/pagos-financiamiento", clientesH.RegistrarPagoFinanciamiento)
			clientes.DELETE("/:id/pagos-financiamiento/:pagoId", clientesH.EliminarPagoFinanciamiento)
		}

		prods := v1.Group("/productos")
		{
			prods.POST("", productosH.Crear)
			prods.GET("", productosH.Listar)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.PATCH("/:id/stock", productosH.AjustarStock)
			prods.GET("/:id/movimientos", productosH.ListarMovimientos)
		}

		fact := v1.Group("/facturas")
		{
			fact.POST("", facturasH.Crear)
			fact.GET("", facturasH.Listar)
			fact.GET("/:id", facturasH.ObtenerPorID)
			fact.PUT("/:id", facturasH.Actualizar)
			fact.DELETE("/:id", facturasH.Eliminar)
			fact.PATCH("/:id/estado", facturasH.ActualizarEstado)
			fact.GET("/:id/pdf", facturasH.DescargarPDF)
			fact.POST("/:id/enviar", facturasH.Enviar)
			fact.GET("/:id/pagos", facturasH.ListarPagos)
			fact.POST("/:id/pagos", facturasH.RegistrarPago)
			fact.DELETE("/:id/pagos/:pagoId", facturasH.EliminarPago)
		}
		v1.GET("/pagos/:id/recibo", facturasH.DescargarRecibo)

		gastos := v1.Group("/gastos")
		{
			gastos.GET("/categorias", gastosH.Categorias)
			gastos.POST("", gastosH.Crear)
			gastos.GET("", gastosH.Listar)
			gastos.GET("/:id", gastosH.ObtenerPorID)
			gastos.PUT("/:id", gastosH.Actualizar)
			gastos.DELETE("/:id", gastosH.Eliminar)
		}

		rep := v1.Group("/reportes")
		{
			rep.GET("/resumen", reportesH.Resumen)
			rep.GET("/mensual", reportesH.Mensual)
			rep.GET("/gastos-categoria", reportesH.GastosPorCategoria)
			rep.GET("/dashboard", reportesH.Dashboard)
			rep.GET("/exportar", reportesH.Exportar)
		}

		v1.GET("/vistas", handler.Vistas(svc.Refresher))
	}

	// Swagger UI — only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
