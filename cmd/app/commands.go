// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/oliverandrich/go-wishlist/internal/config"
	"codeberg.org/oliverandrich/go-wishlist/internal/database"
	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// withDB opens the configured database for the duration of fn.
func withDB(cmd *cli.Command, fn func(db *sqlx.DB) error) error {
	cfg := config.NewFromCLI(cmd)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	return fn(db)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Print the applied schema version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return withDB(cmd, func(db *sqlx.DB) error {
						version, err := database.MigrationVersion(db.DB)
						if err != nil {
							return err
						}
						_, err = fmt.Fprintf(cmd.Root().Writer, "schema version: %d\n", version)
						return err
					})
				},
			},
			{
				Name:  "down",
				Usage: "Roll back the last migration",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return withDB(cmd, func(db *sqlx.DB) error {
						return database.MigrateDown(db.DB)
					})
				},
			},
			{
				Name:  "reset",
				Usage: "Roll back all migrations",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return withDB(cmd, func(db *sqlx.DB) error {
						return database.MigrateReset(db.DB)
					})
				},
			},
		},
	}
}

func customerCommand() *cli.Command {
	return &cli.Command{
		Name:  "customer",
		Usage: "Manage customers",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a customer account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, Usage: "Login email"},
					&cli.StringFlag{Name: "password", Required: true, Usage: "Login password"},
					&cli.StringFlag{Name: "firstname", Usage: "First name"},
					&cli.StringFlag{Name: "lastname", Usage: "Last name"},
				},
				Action: createCustomer,
			},
		},
	}
}

func createCustomer(ctx context.Context, cmd *cli.Command) error {
	email := strings.TrimSpace(strings.ToLower(cmd.String("email")))
	if email == "" {
		return errors.New("email must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.String("password")), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return withDB(cmd, func(db *sqlx.DB) error {
		customer, err := repository.New(db).CreateCustomer(ctx, email, string(hash), cmd.String("firstname"), cmd.String("lastname"))
		if err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		_, err = fmt.Fprintf(cmd.Root().Writer, "created customer %d (%s)\n", customer.ID, customer.Email)
		return err
	})
}

func productCommand() *cli.Command {
	return &cli.Command{
		Name:  "product",
		Usage: "Manage catalog products",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a simple product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sku", Required: true, Usage: "Stock keeping unit"},
					&cli.StringFlag{Name: "name", Required: true, Usage: "Display name"},
					&cli.FloatFlag{Name: "price", Required: true, Usage: "Regular price"},
					&cli.FloatFlag{Name: "special-price", Usage: "Discounted price (0 for none)"},
					&cli.StringFlag{Name: "url-key", Usage: "URL key (defaults to the SKU)"},
					&cli.StringFlag{Name: "image", Usage: "Image path below the media base URL"},
					&cli.Int64Flag{Name: "parent", Usage: "ID of the configurable parent"},
					&cli.BoolFlag{Name: "out-of-stock", Usage: "Mark the product as out of stock"},
				},
				Action: createProduct,
			},
		},
	}
}

func createProduct(ctx context.Context, cmd *cli.Command) error {
	p := &models.Product{
		SKU:        cmd.String("sku"),
		Name:       cmd.String("name"),
		URLKey:     cmd.String("url-key"),
		Price:      cmd.Float("price"),
		Image:      cmd.String("image"),
		Visibility: models.VisibilityBoth,
		Enabled:    true,
		IsInStock:  !cmd.Bool("out-of-stock"),
	}
	if p.URLKey == "" {
		p.URLKey = strings.ToLower(p.SKU)
	}
	if special := cmd.Float("special-price"); special > 0 {
		p.SpecialPrice = sql.NullFloat64{Float64: special, Valid: true}
	}
	if parent := cmd.Int64("parent"); parent > 0 {
		p.ParentID = sql.NullInt64{Int64: parent, Valid: true}
		p.Visibility = models.VisibilityNotVisible
	}

	return withDB(cmd, func(db *sqlx.DB) error {
		if err := repository.New(db).CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		_, err := fmt.Fprintf(cmd.Root().Writer, "created product %d (%s)\n", p.ID, p.SKU)
		return err
	})
}
