package main

import (
	"errors"
	"fmt"
	"strings"

	"facturapp/internal/model"
	"facturapp/internal/repository"
	"facturapp/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedUserCmd = &cobra.Command{
	Use:   "seed-user",
	Short: "Crea o actualiza un usuario (negocio) de demo",
	Long: `Crea el usuario indicado o, si el correo ya existe, reemplaza su
contraseña y nombre de negocio y lo reactiva.`,
	Example: `  facturapp seed-user --email demo@facturapp.do --password demo1234 --negocio "Demo SRL"`,
	RunE:    runSeedUser,
}

func init() {
	rootCmd.AddCommand(seedUserCmd)

	seedUserCmd.Flags().String("email", "demo@facturapp.do", "Correo del usuario")
	seedUserCmd.Flags().String("password", "demo1234", "Contraseña en texto plano")
	seedUserCmd.Flags().String("negocio", "Negocio Demo", "Nombre del negocio")
}

func runSeedUser(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	negocio, _ := cmd.Flags().GetString("negocio")
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return errors.New("se requiere --email y una --password de al menos 8 caracteres")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}

	repo := repository.NewUsuarioRepository(db)
	ctx := cmd.Context()
	u, err := buscarUsuario(db, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = &model.Usuario{Email: email, NombreNegocio: negocio, PasswordHash: hash, Activo: true}
		if err := repo.Create(ctx, u); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		u.NombreNegocio = negocio
		u.PasswordHash = hash
		u.Activo = true
		if err := repo.Update(ctx, u); err != nil {
			return err
		}
	}

	log.Info().Str("email", email).Str("usuario_id", u.ID.String()).Msg("seed-user: usuario listo")
	fmt.Fprintf(cmd.OutOrStdout(), "Usuario '%s' creado/actualizado (%s)\n", email, u.ID)
	return nil
}

// buscarUsuario also matches deactivated accounts, which FindByEmail skips.
func buscarUsuario(db *gorm.DB, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := db.Where("LOWER(email) = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
