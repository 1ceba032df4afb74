package warehouse

// Supported warehouse types.
const (
	TypePostgres  = "postgres"
	TypeSQLServer = "sqlserver"
)

// Config holds connection settings for the analytics warehouse.
type Config struct {
	Type        string // TypePostgres or TypeSQLServer
	Hostname    string
	Port        int
	Database    string
	User        string
	AccessToken string
	SSLMode     string // postgres only
}
