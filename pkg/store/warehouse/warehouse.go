// Package warehouse opens the database connection report queries run
// against, configured through a profile file. Snowflake and Databricks SQL
// warehouses are supported.
package warehouse

import (
	"database/sql"
	"fmt"

	_ "github.com/databricks/databricks-sql-go"
	sf "github.com/snowflakedb/gosnowflake"
	"github.com/spf13/viper"
)

type Config struct {
	Driver     string           `mapstructure:"driver"`
	Snowflake  SnowflakeConfig  `mapstructure:"snowflake"`
	Databricks DatabricksConfig `mapstructure:"databricks"`
}

type SnowflakeConfig struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
}

type DatabricksConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	HTTPPath    string `mapstructure:"http_path"`
	AccessToken string `mapstructure:"access_token"`
}

// LoadConfig loads a warehouse profile from the specified path.
func LoadConfig(profilePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse warehouse profile: %w", err)
	}
	return &config, nil
}

// Open creates a database handle from a profile file. Connection lifecycle
// belongs to the caller; the report core only consumes the handle.
func Open(profilePath string) (*sql.DB, error) {
	config, err := LoadConfig(profilePath)
	if err != nil {
		return nil, err
	}

	switch config.Driver {
	case "snowflake":
		dsn, err := sf.DSN(&sf.Config{
			Account:   config.Snowflake.Account,
			User:      config.Snowflake.User,
			Password:  config.Snowflake.Password,
			Database:  config.Snowflake.Database,
			Schema:    config.Snowflake.Schema,
			Warehouse: config.Snowflake.Warehouse,
			Role:      config.Snowflake.Role,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build snowflake DSN: %w", err)
		}
		return sql.Open("snowflake", dsn)

	case "databricks":
		port := config.Databricks.Port
		if port == 0 {
			port = 443
		}
		dsn := fmt.Sprintf("token:%s@%s:%d/%s",
			config.Databricks.AccessToken, config.Databricks.Host, port, config.Databricks.HTTPPath)
		return sql.Open("databricks", dsn)
	}

	return nil, fmt.Errorf("unsupported warehouse driver: %q", config.Driver)
}
