// seeduser registers an account directly in the database. The server
// has no registration endpoint of its own; accounts normally come from
// the web frontend, and this fills that role on fresh deployments.
//
// Usage:
//
//	go run ./cmd/seeduser -name herbert -password hunter2 [-email a@b] [-country DE] [-admin]
//
// Database settings come from the environment, same as the server.
package main

import (
	"context"
	"crypto/md5"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/herbe-rt/bancho/internal/config"
	"github.com/herbe-rt/bancho/internal/db"
	"github.com/herbe-rt/bancho/internal/model"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	name := flag.String("name", "", "account username")
	password := flag.String("password", "", "plaintext password")
	email := flag.String("email", "", "account email")
	country := flag.String("country", "XX", "two-letter country code")
	admin := flag.Bool("admin", false, "grant the admin privilege set")
	flag.Parse()

	if *name == "" || *password == "" {
		flag.Usage()
		return fmt.Errorf("-name and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	if err := db.RunMigrations(ctx, cfg.WriteDB.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	database, err := db.New(ctx, cfg.ReadDB.DSN(), cfg.WriteDB.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	// Clients never send the plaintext: they log in with its md5, and
	// that md5 is what bcrypt protects at rest.
	passwordMD5 := fmt.Sprintf("%x", md5.Sum([]byte(*password)))
	hash, err := bcrypt.GenerateFromPassword([]byte(passwordMD5), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	privileges := model.PrivUserPublic | model.PrivUserNormal
	if *admin {
		privileges |= model.PrivAdminAccessRAP | model.PrivAdminManageUsers |
			model.PrivAdminBanUsers | model.PrivAdminSilenceUsers |
			model.PrivAdminKickUsers | model.PrivAdminChatMod |
			model.PrivAdminSendAlerts
	}

	var id int32
	err = database.Write.QueryRow(ctx,
		`INSERT INTO users (username, username_safe, email, privileges, password_md5)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		*name, model.SafeName(*name), *email, int32(privileges), string(hash),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	if _, err := database.Write.Exec(ctx,
		`INSERT INTO users_stats (id, country) VALUES ($1, $2)`, id, *country); err != nil {
		return fmt.Errorf("inserting stats row: %w", err)
	}
	for _, table := range []string{"rx_stats", "ap_stats"} {
		if _, err := database.Write.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (id) VALUES ($1)`, table), id); err != nil {
			return fmt.Errorf("inserting %s row: %w", table, err)
		}
	}

	fmt.Printf("created user %q with id %d\n", *name, id)
	return nil
}
