package main

import (
	"fmt"

	"facturapp/internal/service"

	"github.com/spf13/cobra"
)

var hashPasswordCmd = &cobra.Command{
	Use:     "hash-password <password>",
	Short:   "Imprime el hash bcrypt de una contraseña",
	Example: "  facturapp hash-password 'secreto123'",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := service.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
