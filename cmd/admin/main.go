package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go-cdms-inventory/internal/config"
	"go-cdms-inventory/internal/repository"
	"go-cdms-inventory/internal/service"
	"go-cdms-inventory/pkg/database"
	"go-cdms-inventory/pkg/logger"

	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "admin",
		Usage: "CDMS inventory maintenance commands",
		Commands: []*cli.Command{
			migrateCommand(),
			createUserCommand(),
			resetPasswordCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema",
		Action: func(ctx context.Context, c *cli.Command) error {
			return withDB(func(db *gorm.DB) error {
				if err := repository.Migrate(db); err != nil {
					return err
				}
				fmt.Println("schema is up to date")
				return nil
			})
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "Create a user with the given role",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "role", Value: "warehouse-operator", Usage: "admin, warehouse-operator, auditor or customs"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withDB(func(db *gorm.DB) error {
				user, err := service.NewUserService(repository.NewUserRepo(db)).CreateUser(ctx, &service.CreateUserRequest{
					Username: c.String("username"),
					Email:    c.String("email"),
					Password: c.String("password"),
					Role:     c.String("role"),
				})
				if err != nil {
					return describe(err)
				}
				fmt.Printf("created %s (%s) id=%s\n", user.Username, user.Role, user.ID)
				return nil
			})
		},
	}
}

func resetPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset-password",
		Usage: "Set a new password for an existing user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withDB(func(db *gorm.DB) error {
				svc := service.NewUserService(repository.NewUserRepo(db))
				if err := svc.ResetPassword(ctx, c.String("username"), c.String("password")); err != nil {
					return describe(err)
				}
				fmt.Printf("password for %s has been reset\n", c.String("username"))
				return nil
			})
		},
	}
}

func withDB(fn func(db *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.Connect(cfg, logger.New(cfg.Log))
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	return fn(db)
}
