package integration

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/herbe-rt/bancho/internal/db"
	"github.com/herbe-rt/bancho/internal/model"
)

// IntegrationSuite is the shared base for the container-backed suites.
// The PostgreSQL and redis containers are created once in TestMain;
// each suite gets an isolated schema via acquireSchema() and its own
// redis database via acquireRedisDB().
type IntegrationSuite struct {
	suite.Suite
	db  *db.DB
	rdb *redis.Client
	ctx context.Context
}

// SetupSuite runs once before all tests in the suite.
func (s *IntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	// A manually provided DB_ADDR wins (for CI/CD)
	dbAddr := os.Getenv("DB_ADDR")
	if dbAddr == "" {
		dbAddr = acquireSchema(s.T())
	}

	if err := db.RunMigrations(s.ctx, dbAddr); err != nil {
		s.T().Fatalf("failed to run migrations: %v", err)
	}

	var err error
	s.db, err = db.New(s.ctx, dbAddr, dbAddr)
	if err != nil {
		s.T().Fatalf("failed to connect to database: %v", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = sharedRedisAddr
	}
	s.rdb = redis.NewClient(&redis.Options{Addr: redisAddr, DB: acquireRedisDB()})
	if err := s.rdb.Ping(s.ctx).Err(); err != nil {
		s.T().Fatalf("failed to connect to redis: %v", err)
	}
}

// SetupTest wipes all data so every test starts from a clean slate.
func (s *IntegrationSuite) SetupTest() {
	if err := s.cleanupTestData(); err != nil {
		s.T().Fatalf("failed to cleanup test data: %v", err)
	}
}

// TearDownSuite runs once after all tests in the suite.
func (s *IntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
	// Containers are terminated in TestMain, schemas dropped via t.Cleanup
}

func (s *IntegrationSuite) cleanupTestData() error {
	_, err := s.db.Write.Exec(s.ctx,
		`TRUNCATE TABLE users, users_stats, rx_stats, ap_stats,
		 users_relationships, main_menu_icons RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("truncating test tables: %w", err)
	}
	if err := s.rdb.FlushDB(s.ctx).Err(); err != nil {
		return fmt.Errorf("flushing redis database: %w", err)
	}
	return nil
}

// seedUser inserts a users row plus its three stats rows and returns
// the generated id.
func (s *IntegrationSuite) seedUser(name string, privileges model.Privileges, country string) int32 {
	s.T().Helper()

	var id int32
	err := s.db.Write.QueryRow(s.ctx,
		`INSERT INTO users (username, username_safe, email, privileges, password_md5)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		name, model.SafeName(name), strings.ToLower(name)+"@herbe.rt",
		int32(privileges), passwordHashFixture,
	).Scan(&id)
	s.Require().NoError(err, "seeding user %s", name)

	_, err = s.db.Write.Exec(s.ctx,
		`INSERT INTO users_stats (id, country) VALUES ($1, $2)`, id, country)
	s.Require().NoError(err, "seeding users_stats for %s", name)

	for _, table := range []string{"rx_stats", "ap_stats"} {
		_, err = s.db.Write.Exec(s.ctx,
			fmt.Sprintf(`INSERT INTO %s (id) VALUES ($1)`, table), id)
		s.Require().NoError(err, "seeding %s for %s", table, name)
	}

	return id
}
