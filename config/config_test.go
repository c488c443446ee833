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
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const filePerm = 0644

var allEnvVars = []string{
	EnvVarCatalog, EnvVarAssembly, EnvVarOutDir, EnvVarDataOutDir, EnvVarThreads,
	EnvVarFetchProgram, EnvVarCreds, EnvVarSheet, EnvVarSheetName, EnvVarUser,
	EnvVarPass, EnvVarHost, EnvVarPort, EnvVarDBName, EnvVarS3Endpoint,
	EnvVarS3AccessKey, EnvVarS3SecretKey,
}

func TestConfig(t *testing.T) {
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}

	Convey("Without any env vars, you get a config of defaults", t, func() {
		config, err := FromEnv()
		So(err, ShouldBeNil)
		So(config.OutDir, ShouldEqual, DefaultOutDir)
		So(config.DataOutDir, ShouldEqual, DefaultOutDir)
		So(config.Threads, ShouldEqual, DefaultThreads)
		So(config.FetchProgram, ShouldEqual, DefaultFetchProgram)
		So(config.GenomeAssembly, ShouldBeBlank)
		So(config.CatalogKind(), ShouldEqual, CatalogFile)
		So(config.CatalogKind().String(), ShouldEqual, "file")
	})

	Convey("Given a full set of env vars, you can make a config", t, func() {
		os.Setenv(EnvVarCatalog, "/catalog.tsv")
		os.Setenv(EnvVarAssembly, "GRCh38")
		os.Setenv(EnvVarOutDir, "/out")
		os.Setenv(EnvVarDataOutDir, "")
		os.Setenv(EnvVarThreads, "4")
		os.Setenv(EnvVarFetchProgram, "curl")
		os.Setenv(EnvVarCreds, "/path")
		os.Setenv(EnvVarSheet, "sheetid")
		os.Setenv(EnvVarSheetName, "Experiments")
		os.Setenv(EnvVarUser, "user")
		os.Setenv(EnvVarPass, "pass")
		os.Setenv(EnvVarHost, "host")
		os.Setenv(EnvVarPort, "1234")
		os.Setenv(EnvVarDBName, "db")
		os.Setenv(EnvVarS3Endpoint, "http://localhost:9000")
		os.Setenv(EnvVarS3AccessKey, "AKIA")
		os.Setenv(EnvVarS3SecretKey, "SECRET")

		config, err := FromEnv()
		So(err, ShouldBeNil)
		So(config, ShouldNotBeNil)
		So(config.CatalogPath, ShouldEqual, "/catalog.tsv")
		So(config.GenomeAssembly, ShouldEqual, "GRCh38")
		So(config.OutDir, ShouldEqual, "/out")
		So(config.DataOutDir, ShouldEqual, "/out")
		So(config.Threads, ShouldEqual, 4)
		So(config.FetchProgram, ShouldEqual, "curl")
		So(config.CredentialsPath, ShouldEqual, "/path")
		So(config.SheetID, ShouldEqual, "sheetid")
		So(config.SheetName, ShouldEqual, "Experiments")
		So(config.S3Endpoint, ShouldEqual, "http://localhost:9000")
		So(config.S3AccessKey, ShouldEqual, "AKIA")
		So(config.S3SecretKey, ShouldEqual, "SECRET")
		So(config.CatalogKind(), ShouldEqual, CatalogMySQL)
		So(config.CatalogKind().String(), ShouldEqual, "mysql")

		mc := config.MySQLConfig()
		So(mc.User, ShouldEqual, "user")
		So(mc.Passwd, ShouldEqual, "pass")
		So(mc.Net, ShouldEqual, "tcp")
		So(mc.Addr, ShouldEqual, "host:1234")
		So(mc.DBName, ShouldEqual, "db")

		Convey("Without a full set of SQL env vars, the sheet is the catalog", func() {
			os.Setenv(EnvVarUser, "")
			config, err := FromEnv()
			So(err, ShouldBeNil)
			So(config.CatalogKind(), ShouldEqual, CatalogSheet)

			os.Setenv(EnvVarSheet, "")
			config, err = FromEnv()
			So(err, ShouldBeNil)
			So(config.CatalogKind(), ShouldEqual, CatalogFile)
		})

		Convey("A separate data output directory can be set", func() {
			os.Setenv(EnvVarDataOutDir, "/data")
			config, err := FromEnv()
			So(err, ShouldBeNil)
			So(config.DataOutDir, ShouldEqual, "/data")
		})

		Convey("Invalid thread counts are rejected", func() {
			for _, threads := range []string{"0", "-2", "many", "1.5"} {
				os.Setenv(EnvVarThreads, threads)
				config, err := FromEnv()
				So(err, ShouldEqual, ErrInvalidThreads)
				So(config, ShouldBeNil)
			}
		})

		Convey("You can load values from an .env file", func() {
			os.Unsetenv(EnvVarAssembly)
			os.Unsetenv(EnvVarThreads)

			dir := t.TempDir()

			config, err := FromEnv(dir)
			So(err, ShouldBeNil)
			So(config.GenomeAssembly, ShouldBeBlank)
			So(config.Threads, ShouldEqual, DefaultThreads)

			err = os.WriteFile(dir+"/.env",
				[]byte(EnvVarAssembly+"=hg19\n"+EnvVarThreads+"=8\n"+EnvVarOutDir+"=/ignored"), filePerm)
			So(err, ShouldBeNil)

			config, err = FromEnv(dir)
			So(err, ShouldBeNil)
			So(config.GenomeAssembly, ShouldEqual, "hg19")
			So(config.Threads, ShouldEqual, 8)
			So(config.OutDir, ShouldEqual, "/out")

			os.Unsetenv(EnvVarAssembly)
			os.Unsetenv(EnvVarThreads)
		})
	})
}
