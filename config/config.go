/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Author: Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package config

import (
	"net"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

const (
	EnvVarCatalog      = "ENCODE_LOOKUP_CATALOG_FILE"
	EnvVarAssembly     = "ENCODE_LOOKUP_GENOME_ASSEMBLY"
	EnvVarOutDir       = "ENCODE_LOOKUP_OUTDIR"
	EnvVarDataOutDir   = "ENCODE_LOOKUP_DATA_OUTDIR"
	EnvVarThreads      = "ENCODE_LOOKUP_THREADS"
	EnvVarFetchProgram = "ENCODE_LOOKUP_FETCH_PROGRAM"
	EnvVarCreds        = "ENCODE_LOOKUP_CREDENTIALS_FILE"
	EnvVarSheet        = "ENCODE_LOOKUP_SPREADSHEET_ID"
	EnvVarSheetName    = "ENCODE_LOOKUP_SHEET_NAME"
	EnvVarUser         = "ENCODE_LOOKUP_SQL_USER"
	EnvVarPass         = "ENCODE_LOOKUP_SQL_PASS"
	EnvVarHost         = "ENCODE_LOOKUP_SQL_HOST"
	EnvVarPort         = "ENCODE_LOOKUP_SQL_PORT"
	EnvVarDBName       = "ENCODE_LOOKUP_SQL_DB"
	EnvVarS3Endpoint   = "ENCODE_LOOKUP_S3_ENDPOINT"
	EnvVarS3AccessKey  = "ENCODE_LOOKUP_S3_ACCESS_KEY"
	EnvVarS3SecretKey  = "ENCODE_LOOKUP_S3_SECRET_KEY"

	DefaultOutDir       = "."
	DefaultThreads      = 1
	DefaultFetchProgram = "wget"

	sqlNetwork = "tcp"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrInvalidThreads = Error("threads must be a whole number of at least 1")

// CatalogKind describes where the master catalog of experiments is read from.
type CatalogKind int

const (
	CatalogFile CatalogKind = iota
	CatalogSheet
	CatalogMySQL
)

func (k CatalogKind) String() string {
	switch k {
	case CatalogSheet:
		return "sheet"
	case CatalogMySQL:
		return "mysql"
	default:
		return "file"
	}
}

type Config struct {
	CatalogPath     string
	GenomeAssembly  string
	OutDir          string
	DataOutDir      string
	Threads         int
	FetchProgram    string
	CredentialsPath string
	SheetID         string
	SheetName       string
	User            string
	Password        string
	Host            string
	Port            string
	DBName          string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
}

// FromEnv returns a new Config with properies populated from environment
// variables ENCODE_LOOKUP_*, where * is amongst: CATALOG_FILE,
// GENOME_ASSEMBLY, OUTDIR, DATA_OUTDIR, THREADS, FETCH_PROGRAM,
// CREDENTIALS_FILE, SPREADSHEET_ID, SHEET_NAME, SQL_USER, SQL_PASS, SQL_HOST,
// SQL_PORT, SQL_DB, S3_ENDPOINT, S3_ACCESS_KEY, and S3_SECRET_KEY.
//
// None are required. OUTDIR defaults to the current directory, DATA_OUTDIR to
// OUTDIR, THREADS to 1 and FETCH_PROGRAM to wget.
//
// If these environment variables are defined in a file called .env (and not
// previously set in an environment variable), they will be automatically
// loaded.
//
// Optionally supply a directory to look for the .env file in.
func FromEnv(dir ...string) (*Config, error) {
	var parentDir string
	if len(dir) == 1 {
		parentDir = dir[0] + string(os.PathSeparator)
	}

	godotenv.Load(parentDir + ".env")

	threads, err := threadsFromEnv()
	if err != nil {
		return nil, err
	}

	c := &Config{
		CatalogPath:     os.Getenv(EnvVarCatalog),
		GenomeAssembly:  os.Getenv(EnvVarAssembly),
		OutDir:          envOrDefault(EnvVarOutDir, DefaultOutDir),
		Threads:         threads,
		FetchProgram:    envOrDefault(EnvVarFetchProgram, DefaultFetchProgram),
		CredentialsPath: os.Getenv(EnvVarCreds),
		SheetID:         os.Getenv(EnvVarSheet),
		SheetName:       os.Getenv(EnvVarSheetName),
		User:            os.Getenv(EnvVarUser),
		Password:        os.Getenv(EnvVarPass),
		Host:            os.Getenv(EnvVarHost),
		Port:            os.Getenv(EnvVarPort),
		DBName:          os.Getenv(EnvVarDBName),
		S3Endpoint:      os.Getenv(EnvVarS3Endpoint),
		S3AccessKey:     os.Getenv(EnvVarS3AccessKey),
		S3SecretKey:     os.Getenv(EnvVarS3SecretKey),
	}

	c.DataOutDir = envOrDefault(EnvVarDataOutDir, c.OutDir)

	return c, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func threadsFromEnv() (int, error) {
	v := os.Getenv(EnvVarThreads)
	if v == "" {
		return DefaultThreads, nil
	}

	threads, err := strconv.Atoi(v)
	if err != nil || threads < 1 {
		return 0, ErrInvalidThreads
	}

	return threads, nil
}

// CatalogKind says which catalog source the config describes: a MySQL
// database when all the SQL_* vars are set, otherwise a Google sheet when
// CREDENTIALS_FILE and SPREADSHEET_ID are set, otherwise a local file.
func (c *Config) CatalogKind() CatalogKind {
	switch {
	case c.User != "" && c.Password != "" && c.Host != "" && c.Port != "" && c.DBName != "":
		return CatalogMySQL
	case c.CredentialsPath != "" && c.SheetID != "":
		return CatalogSheet
	default:
		return CatalogFile
	}
}

// MySQLConfig returns a mysql.Config suitable for catalogdb.New().
func (c *Config) MySQLConfig() *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = sqlNetwork
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.DBName

	return mc
}
