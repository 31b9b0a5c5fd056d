package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"path"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vippsas/sqlscript/sqlparser"
	"github.com/vippsas/sqlscript/sqlparser/sqldocument"
	"golang.org/x/net/proxy"
	"gopkg.in/yaml.v3"
)

const configFilename = "sqlscript.yaml"

var errNoConfig = errors.New("No sqlscript.yaml found in directory")

type DatabaseConfig struct {
	Connection string `yaml:"connection"`
}

// socksDialer returns the SOCKS5 dialer configured in SQL_SOCKS, or nil.
func socksDialer() (proxy.ContextDialer, error) {
	socksProxyAddress := os.Getenv("SQL_SOCKS")
	if socksProxyAddress == "" {
		return nil, nil
	}
	dialer, err := proxy.SOCKS5("tcp", socksProxyAddress, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Could not connect with SOCKS5 to %s", socksProxyAddress))
	}
	return dialer.(proxy.ContextDialer), nil
}

func OpenSocks5Sql(dsn string) (*sql.DB, error) {
	var err error
	var connector *mssql.Connector

	if strings.HasPrefix(dsn, "azuresql://") {
		connector, err = azuread.NewConnector(dsn)
		if err != nil {
			return nil, err
		}
	} else if strings.HasPrefix(dsn, "sqlserver://") {
		connector, err = mssql.NewConnector(dsn)
		if err != nil {
			return nil, err
		}
	} else {
		return nil, errors.New("expected URI-style dsn; sqlserver:// for password login or azuresql:// for AD login")
	}

	dialer, err := socksDialer()
	if err != nil {
		return nil, err
	}
	if dialer != nil {
		connector.Dialer = dialer
	}

	return sql.OpenDB(connector), nil
}

func OpenSocks5Pgx(dsn string) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	dialer, err := socksDialer()
	if err != nil {
		return nil, err
	}
	if dialer != nil {
		connConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		}
	}

	return stdlib.OpenDB(*connConfig), nil
}

func (dbcfg DatabaseConfig) isPostgres() bool {
	return strings.HasPrefix(dbcfg.Connection, "postgres://") || strings.HasPrefix(dbcfg.Connection, "postgresql://")
}

// Dialect is the dialect scripts for this database are split in unless the
// command line says otherwise.
func (dbcfg DatabaseConfig) Dialect() sqlparser.Dialect {
	if dbcfg.isPostgres() {
		return sqlparser.DialectPostgres
	}
	return sqlparser.DialectMSSQL
}

func (dbcfg DatabaseConfig) Open(ctx context.Context, logger logrus.FieldLogger) (*sql.DB, error) {
	if dbcfg.isPostgres() {
		logger.Debug("opening postgres connection")
		return OpenSocks5Pgx(dbcfg.Connection)
	}
	logger.Debug("opening sql server connection")
	return OpenSocks5Sql(dbcfg.Connection)
}

type Config struct {
	Databases map[string]DatabaseConfig `yaml:"databases"`
	Parser    sqlparser.Config          `yaml:"parser"`
}

func LoadConfig() (Config, error) {
	var result Config

	configPath := path.Join(directory, configFilename)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, errNoConfig
	}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(yamlFile, &result)
	if err != nil {
		return Config{}, errors.Wrap(err, configPath)
	}
	return result, nil
}

// parserConfig is the parser section of sqlscript.yaml, if any, with the
// command line flags applied on top. A dialect that is given neither way
// is guessed from the extension of file, then from fallback.
func parserConfig(file string, fallback sqlparser.Dialect) (sqlparser.Config, error) {
	var cfg sqlparser.Config
	fileConfig, err := LoadConfig()
	switch {
	case err == nil:
		cfg = fileConfig.Parser
	case errors.Is(err, errNoConfig):
	default:
		return sqlparser.Config{}, err
	}

	if dialectName != "" {
		if cfg.Dialect, err = sqlparser.ParseDialect(dialectName); err != nil {
			return sqlparser.Config{}, err
		}
	}
	if cfg.Dialect == "" {
		if d, ok := sqlparser.DialectFromExtension(file); ok && d != sqlparser.DialectStandard {
			cfg.Dialect = d
		} else {
			cfg.Dialect = fallback
		}
	}
	if delimiterArg != "" {
		if cfg.Delimiter, err = sqldocument.ParseDelimiter(delimiterArg); err != nil {
			return sqlparser.Config{}, err
		}
	}
	if alternateArg != "" {
		if cfg.AlternateDelimiter, err = sqldocument.ParseDelimiter(alternateArg); err != nil {
			return sqlparser.Config{}, err
		}
	}
	if emptyLineDelimiter {
		cfg.EmptyLineIsDelimiter = true
	}
	if encodingName != "" {
		cfg.Encoding = encodingName
	}
	if chunkSize > 0 {
		cfg.ChunkSize = chunkSize
	}
	return cfg.WithDefaults(), nil
}

func newLogger() *logrus.Logger {
	logger := logrus.StandardLogger()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
