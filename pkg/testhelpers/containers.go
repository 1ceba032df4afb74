// Package testhelpers provides shared infrastructure for integration tests.
package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// WarehouseTestImage is the PostgreSQL image used to stand in for the
// analytics warehouse in integration tests.
const WarehouseTestImage = "postgres:16-alpine"

// TestWarehouse holds a shared warehouse container for integration tests.
type TestWarehouse struct {
	Container testcontainers.Container
	Host      string
	Port      int
	Database  string
	User      string
	Password  string
}

var (
	sharedWarehouse     *TestWarehouse
	sharedWarehouseOnce sync.Once
	sharedWarehouseErr  error
)

// GetTestWarehouse returns a shared PostgreSQL container seeded with the
// allowlisted analytics tables. The container is created once and reused
// across all tests in the run.
func GetTestWarehouse(t *testing.T) *TestWarehouse {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedWarehouseOnce.Do(func() {
		sharedWarehouse, sharedWarehouseErr = setupWarehouse()
	})

	if sharedWarehouseErr != nil {
		t.Fatalf("Failed to setup test warehouse: %v", sharedWarehouseErr)
	}

	return sharedWarehouse
}

func setupWarehouse() (*TestWarehouse, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        WarehouseTestImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "warehouse",
			"POSTGRES_USER":     "analyst",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	tw := &TestWarehouse{
		Container: container,
		Host:      host,
		Port:      port.Int(),
		Database:  "warehouse",
		User:      "analyst",
		Password:  "test_password",
	}

	if err := seedWarehouse(ctx, tw); err != nil {
		return nil, fmt.Errorf("failed to seed test warehouse: %w", err)
	}

	return tw, nil
}

// seedWarehouse creates the allowlisted tables plus the insights reporting
// table and loads a handful of rows.
func seedWarehouse(ctx context.Context, tw *TestWarehouse) error {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		tw.User, tw.Password, tw.Host, tw.Port, tw.Database)

	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect for seeding: %w", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id INT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT,
			city TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id INT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT,
			price NUMERIC(10,2)
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			sale_id INT PRIMARY KEY,
			customer_id INT REFERENCES customers(customer_id),
			product_id INT REFERENCES products(product_id),
			quantity INT,
			total NUMERIC(10,2),
			sold_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS business_insights (
			insight_id INT PRIMARY KEY,
			insight_type TEXT,
			metric_name TEXT,
			metric_value NUMERIC,
			ai_interpretation TEXT,
			generated_at TIMESTAMP
		)`,
		`INSERT INTO customers VALUES
			(1, 'Ada Lindgren', 'ada@example.com', 'Oslo'),
			(2, 'Bo Chen', 'bo@example.com', 'Singapore'),
			(3, 'Carla Reyes', 'carla@example.com', 'Lisbon')
			ON CONFLICT DO NOTHING`,
		`INSERT INTO products VALUES
			(1, 'Standing Desk', 'Furniture', 499.00),
			(2, 'Mechanical Keyboard', 'Electronics', 129.00)
			ON CONFLICT DO NOTHING`,
		`INSERT INTO sales VALUES
			(1, 1, 1, 1, 499.00, '2026-01-15 10:00:00'),
			(2, 2, 2, 2, 258.00, '2026-02-03 14:30:00'),
			(3, 3, 2, 1, 129.00, '2026-02-10 09:15:00')
			ON CONFLICT DO NOTHING`,
		`INSERT INTO business_insights VALUES
			(1, 'Sales Patterns', 'weekly_revenue', 886.00, 'Revenue is concentrated early in the week.', '2026-02-11 08:00:00'),
			(2, 'Product Performance', 'top_product', 2, 'Keyboards outsell desks two to one.', '2026-02-12 08:00:00')
			ON CONFLICT DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("seed statement failed: %w", err)
		}
	}

	return nil
}
