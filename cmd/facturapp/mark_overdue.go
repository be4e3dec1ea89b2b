package main

import (
	"fmt"

	"facturapp/internal/router"
	"facturapp/internal/worker"

	"github.com/spf13/cobra"
)

var markOverdueCmd = &cobra.Command{
	Use:   "mark-overdue",
	Short: "Marca como vencidas las facturas enviadas con fecha de vencimiento pasada",
	Long: `Ejecuta una vez el mismo barrido que el servidor programa con
OVERDUE_CRON_SPEC. El cambio de estado es neutral para el financiamiento.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		// No Redis: view invalidation and mail dispatch are skipped.
		svc := router.NuevosServicios(appConfig, db, nil, nil)
		n := worker.EjecutarVencimientos(cmd.Context(), svc.Facturas)
		fmt.Fprintf(cmd.OutOrStdout(), "%d factura(s) marcadas como vencidas\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(markOverdueCmd)
}
