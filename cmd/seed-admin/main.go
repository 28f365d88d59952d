package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/funnelhub/funnelhub-backend/internal/admins"
	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/db"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
	"github.com/funnelhub/funnelhub-backend/pkg/security"
)

const generatedPasswordLength = 20

// seed-admin creates the first admin. Admin routes require an existing
// admin with permManageAdmins, so the API alone cannot bootstrap one.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed-admin"})

	_ = godotenv.Load()

	email := flag.String("email", "", "admin e-mail (required)")
	password := flag.String("password", "", "admin password; generated when empty")
	firstName := flag.String("first-name", "", "optional first name")
	lastName := flag.String("last-name", "", "optional last name")
	flag.Parse()

	if strings.TrimSpace(*email) == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	svc, err := admins.NewService(admins.ServiceParams{
		Repo:   admins.NewRepository(dbClient.DB()),
		Hasher: security.NewPasswordHasher(cfg.Password),
		JWT:    cfg.JWT,
	})
	if err != nil {
		logg.Error(ctx, "failed to create admin service", err)
		os.Exit(1)
	}

	secret := *password
	generated := secret == ""
	if generated {
		secret, err = security.GenerateTempPassword(generatedPasswordLength)
		if err != nil {
			logg.Error(ctx, "failed to generate password", err)
			os.Exit(1)
		}
	}

	manage := true
	in := admins.Payload{
		Email:            email,
		Password:         &secret,
		PermManageAdmins: &manage,
	}
	if *firstName != "" {
		in.FirstName = firstName
	}
	if *lastName != "" {
		in.LastName = lastName
	}

	created, err := svc.Create(ctx, in)
	if err != nil {
		logg.Error(logg.WithField(ctx, "email", *email), "failed to create admin", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "admin_uuid", created.Admin.UUID.String()), "seed_admin.created")
	if generated {
		fmt.Println("generated password:", secret)
	}
}
