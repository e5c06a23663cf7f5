package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/herbe-rt/bancho/internal/model"
)

// Accounts reads and writes the users tables. Fetches return nil, nil
// when no row matches.
type Accounts struct {
	db  *DB
	log zerolog.Logger
}

func NewAccounts(db *DB, log zerolog.Logger) *Accounts {
	return &Accounts{db: db, log: log}
}

// password_md5 carries the bcrypt hash; the column name is historical.
const accountColumns = `id, username, email, privileges, password_md5,
	clan_id, clan_privileges, silence_end, donor_expire, frozen`

func (r *Accounts) FetchByID(ctx context.Context, id int32) (*model.Account, error) {
	row := r.db.Read.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE id = $1`, id)
	return r.scanAccount(ctx, row)
}

func (r *Accounts) FetchByName(ctx context.Context, name string) (*model.Account, error) {
	row := r.db.Read.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE username_safe = $1`,
		model.SafeName(name))
	return r.scanAccount(ctx, row)
}

// scanAccount completes an account from its users row: the country
// lives on users_stats and the friends list on users_relationships.
func (r *Accounts) scanAccount(ctx context.Context, row pgx.Row) (*model.Account, error) {
	var acc model.Account
	err := row.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.Privileges,
		&acc.PasswordBcrypt, &acc.ClanID, &acc.ClanPrivileges,
		&acc.SilenceEnd, &acc.DonorExpire, &acc.FreezeEnd)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user row: %w", err)
	}

	err = r.db.Read.QueryRow(ctx,
		`SELECT country FROM users_stats WHERE id = $1`, acc.ID,
	).Scan(&acc.Country)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("querying country for user %d: %w", acc.ID, err)
	}

	rows, err := r.db.Read.Query(ctx,
		`SELECT user2 FROM users_relationships WHERE user1 = $1`, acc.ID)
	if err != nil {
		return nil, fmt.Errorf("querying friends for user %d: %w", acc.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var friend int32
		if err := rows.Scan(&friend); err != nil {
			return nil, fmt.Errorf("scanning friend row: %w", err)
		}
		acc.Friends = append(acc.Friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating friend rows: %w", err)
	}

	return &acc, nil
}

func (r *Accounts) UpdatePrivileges(ctx context.Context, userID int32, privileges model.Privileges) error {
	_, err := r.db.Write.Exec(ctx,
		`UPDATE users SET privileges = $1 WHERE id = $2`,
		int32(privileges), userID)
	if err != nil {
		return fmt.Errorf("updating privileges for user %d: %w", userID, err)
	}

	r.log.Info().Int32("user", userID).Int32("privileges", int32(privileges)).
		Msg("privileges updated")
	return nil
}

// ClearFreeze zeroes the freeze deadline once it has been acted on.
func (r *Accounts) ClearFreeze(ctx context.Context, userID int32) error {
	_, err := r.db.Write.Exec(ctx,
		`UPDATE users SET frozen = 0 WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clearing freeze for user %d: %w", userID, err)
	}
	return nil
}

func (r *Accounts) AddFriend(ctx context.Context, userID, friendID int32) error {
	_, err := r.db.Write.Exec(ctx,
		`INSERT INTO users_relationships (user1, user2) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		userID, friendID)
	if err != nil {
		return fmt.Errorf("adding friend %d for user %d: %w", friendID, userID, err)
	}
	return nil
}

func (r *Accounts) RemoveFriend(ctx context.Context, userID, friendID int32) error {
	_, err := r.db.Write.Exec(ctx,
		`DELETE FROM users_relationships WHERE user1 = $1 AND user2 = $2`,
		userID, friendID)
	if err != nil {
		return fmt.Errorf("removing friend %d for user %d: %w", friendID, userID, err)
	}
	return nil
}
