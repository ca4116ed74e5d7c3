package database

const (
	// DriverNone disables the run ledger.
	DriverNone = "none"
	// DriverMySQL stores runs in a MySQL database.
	DriverMySQL = "mysql"
	// DriverSQLite stores runs in a local SQLite file.
	DriverSQLite = "sqlite"
)

// Config holds configuration for the database connection.
type Config struct {
	// Driver is the database driver (none, mysql, sqlite).
	Driver string `mapstructure:"driver" default:"none"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:"filelist_diff"`
	// Path is the SQLite database file.
	Path string `mapstructure:"path" default:"filelist-diff.db"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Enabled reports whether a database is configured.
func (c Config) Enabled() bool {
	return c.Driver != "" && c.Driver != DriverNone
}
