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

package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/encode-lookup/catalog"
	"github.com/wtsi-hgi/encode-lookup/catalogdb"
	"github.com/wtsi-hgi/encode-lookup/config"
	"github.com/wtsi-hgi/encode-lookup/consolidate"
	"github.com/wtsi-hgi/encode-lookup/pipeline"
	"github.com/wtsi-hgi/encode-lookup/retrieve"
	"github.com/wtsi-hgi/encode-lookup/sheets"
)

const (
	ErrIncompleteAssay = Error("an assay needs both its metadata and its fastq file report")

	dirPerm = 0755

	dhsFlag          = "dhs"
	dhsFastqFlag     = "dhs_fastq"
	h3k27acFlag      = "h3k27ac"
	h3k27acFastqFlag = "h3k27ac_fastq"
	atacFlag         = "atac"
	atacFastqFlag    = "atac_fastq"
	outdirFlag       = "outdir"
	dataOutdirFlag   = "data_outdir"
	threadsFlag      = "threads"
)

// options for this cmd.
var (
	dhsPath          string
	dhsFastqPath     string
	h3k27acPath      string
	h3k27acFastqPath string
	atacPath         string
	atacFastqPath    string
	exptFile         string
	genomeAssembly   string
	outDir           string
	downloadFiles    bool
	dataOutDir       string
	applyPool        bool
	threads          int
)

// consolidateCmd represents the consolidate command.
var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Consolidate ENCODE assay metadata.",
	Long: `Consolidate ENCODE assay metadata.

For each assay you supply 2 file reports downloaded from the ENCODE portal: one
of the processed (eg. bam) files you want to use, and one of the fastq files of
the same experiments, which is used to find read lengths. The accessibility
assay (--dhs and --dhs_fastq) is required. --h3k27ac and --h3k27ac_fastq add the
histone mark, whose files will be paired with accessibility files of the same
biological condition. --atac and --atac_fastq add a second accessibility assay.

Biosample names and developmental stages are taken from a master catalog of
ENCODE experiments. This is the --expt_file if supplied, otherwise it comes
from the environment: a MySQL database if all of ENCODE_LOOKUP_SQL_USER,
_SQL_PASS, _SQL_HOST, _SQL_PORT and _SQL_DB are set, otherwise a Google sheet if
ENCODE_LOOKUP_CREDENTIALS_FILE and _SPREADSHEET_ID are set (the sheet named by
_SHEET_NAME, with columns accession, biosample_summary and life_stage),
otherwise the file in ENCODE_LOOKUP_CATALOG_FILE.

The following files are written to --outdir, which will be created if it
doesn't exist:
input_data_lookup.tsv
full_metadata.tsv
unique_metadata.tsv
unique_singleend_h3k27ac_dhs_files.tsv
unique_pairedend_h3k27ac_dhs_files.tsv

With --download_files, the download links are also written to
linkstodownload.txt, and the files are downloaded to --data_outdir. Downloads
use the program in ENCODE_LOOKUP_FETCH_PROGRAM (wget by default) called like
'wget <url> -P <dir>', except for s3:// links, which are fetched directly,
anonymously unless ENCODE_LOOKUP_S3_ACCESS_KEY and _S3_SECRET_KEY are set
(ENCODE_LOOKUP_S3_ENDPOINT selects an S3-compatible store). With --apply_pool,
--threads downloads happen at once.

--genome_assembly, --outdir, --data_outdir and --threads default to the values
of ENCODE_LOOKUP_GENOME_ASSEMBLY, _OUTDIR, _DATA_OUTDIR and _THREADS.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		c, err := config.FromEnv()
		if err != nil {
			die(err)
		}

		resolveOptions(cmd, c)

		ctx := context.Background()

		res, err := runPipeline(ctx, c)
		if err != nil {
			die(err)
		}

		infof("%d rows in %d replicate groups", len(res.Full), len(res.Unique))

		if res.HasMark {
			infof("%d accessibility and %d mark files had no match in the other assay",
				res.UnmatchedAccessibility, res.UnmatchedMark)
		}

		if err = os.MkdirAll(outDir, dirPerm); err != nil {
			die(err)
		}

		paths, err := pipeline.Write(res, outDir)
		if err != nil {
			die(err)
		}

		for _, path := range paths {
			infof("wrote %s", path)
		}

		if downloadFiles {
			download(ctx, c, res)
		}
	},
}

func init() {
	RootCmd.AddCommand(consolidateCmd)

	addInputFlags(consolidateCmd)

	// flags specific to this sub-command
	consolidateCmd.Flags().StringVar(&outDir, outdirFlag, config.DefaultOutDir,
		"output directory for the metadata files")
	consolidateCmd.Flags().BoolVar(&downloadFiles, "download_files", false,
		"download the files in the lookup table")
	consolidateCmd.Flags().StringVar(&dataOutDir, dataOutdirFlag, "",
		"output directory for downloaded files (defaults to --outdir)")
	consolidateCmd.Flags().BoolVar(&applyPool, "apply_pool", false,
		"download files concurrently")
	consolidateCmd.Flags().IntVar(&threads, threadsFlag, config.DefaultThreads,
		"number of concurrent downloads with --apply_pool")
}

// addInputFlags adds the flags describing the assay tables and catalog to the
// given command.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dhsPath, dhsFlag, "",
		"file report of the accessibility assay")
	markFlagRequired(cmd, dhsFlag)
	cmd.Flags().StringVar(&dhsFastqPath, dhsFastqFlag, "",
		"fastq file report of the accessibility assay")
	markFlagRequired(cmd, dhsFastqFlag)
	cmd.Flags().StringVar(&h3k27acPath, h3k27acFlag, "",
		"file report of the H3K27ac assay")
	cmd.Flags().StringVar(&h3k27acFastqPath, h3k27acFastqFlag, "",
		"fastq file report of the H3K27ac assay")
	cmd.Flags().StringVar(&atacPath, atacFlag, "",
		"file report of a second accessibility assay")
	cmd.Flags().StringVar(&atacFastqPath, atacFastqFlag, "",
		"fastq file report of a second accessibility assay")
	cmd.Flags().StringVar(&exptFile, "expt_file", "",
		"master catalog of ENCODE experiments")
	cmd.Flags().StringVar(&genomeAssembly, "genome_assembly", "",
		"only use files of this genome assembly, eg. GRCh38")
}

// resolveOptions fills in options that weren't given on the command line from
// the config.
func resolveOptions(cmd *cobra.Command, c *config.Config) {
	if genomeAssembly == "" {
		genomeAssembly = c.GenomeAssembly
	}

	if !cmd.Flags().Changed(outdirFlag) {
		outDir = c.OutDir
	}

	if dataOutDir == "" {
		dataOutDir = outDir

		if c.DataOutDir != c.OutDir {
			dataOutDir = c.DataOutDir
		}
	}

	if !cmd.Flags().Changed(threadsFlag) {
		threads = c.Threads
	}
}

func runPipeline(ctx context.Context, c *config.Config) (*consolidate.Result, error) {
	acc, err := assayFiles(dhsPath, dhsFastqPath)
	if err != nil {
		return nil, err
	}

	mark, err := assayFiles(h3k27acPath, h3k27acFastqPath)
	if err != nil {
		return nil, err
	}

	alt, err := assayFiles(atacPath, atacFastqPath)
	if err != nil {
		return nil, err
	}

	src, closer, err := catalogSource(ctx, c)
	if err != nil {
		return nil, err
	}

	defer closer()

	return pipeline.Run(ctx, pipeline.Inputs{
		Accessibility:  acc,
		Mark:           mark,
		Alt:            alt,
		Catalog:        src,
		GenomeAssembly: genomeAssembly,
	})
}

func assayFiles(metadata, runs string) (*pipeline.AssayFiles, error) {
	if metadata == "" && runs == "" {
		return nil, nil
	}

	if metadata == "" || runs == "" {
		return nil, ErrIncompleteAssay
	}

	return &pipeline.AssayFiles{Metadata: metadata, Runs: runs}, nil
}

// catalogSource returns the Source of the master catalog, and a function to
// call when it is no longer needed.
func catalogSource(ctx context.Context, c *config.Config) (catalog.Source, func(), error) {
	noop := func() {}

	if exptFile != "" {
		return catalog.FileSource(exptFile), noop, nil
	}

	switch c.CatalogKind() {
	case config.CatalogMySQL:
		db, err := catalogdb.New(c.MySQLConfig())
		if err != nil {
			return nil, noop, err
		}

		return db, func() {
			if errc := db.Close(); errc != nil {
				warnf("closing catalog database: %s", errc)
			}
		}, nil
	case config.CatalogSheet:
		sc, err := sheets.ServiceCredentialsFromFile(c.CredentialsPath)
		if err != nil {
			return nil, noop, err
		}

		s, err := sheets.New(ctx, sc)
		if err != nil {
			return nil, noop, err
		}

		return &sheets.CatalogSource{Sheets: s, DocID: c.SheetID, SheetName: c.SheetName}, noop, nil
	default:
		if c.CatalogPath == "" {
			warn("no master catalog supplied; all biosample stages will be unknown")

			return nil, noop, nil
		}

		return catalog.FileSource(c.CatalogPath), noop, nil
	}
}

func download(ctx context.Context, c *config.Config, res *consolidate.Result) {
	s3f, err := retrieve.NewS3Fetcher(ctx, retrieve.S3Config{
		Endpoint:        c.S3Endpoint,
		AccessKeyID:     c.S3AccessKey,
		SecretAccessKey: c.S3SecretKey,
		Anonymous:       true,
	})
	if err != nil {
		die(err)
	}

	r := retrieve.New(retrieve.SchemeFetcher{
		Default:  retrieve.NewCommandFetcher(c.FetchProgram),
		ByScheme: map[string]retrieve.Fetcher{retrieve.S3Scheme: s3f},
	}, applyPool, threads)
	r.Logger = appLogger.New("download", dataOutDir)

	results, err := pipeline.Download(ctx, res, r, outDir, dataOutDir)
	if err != nil {
		die(err)
	}

	failed := retrieve.Failed(results)
	if len(failed) > 0 {
		warnf("%d of %d downloads failed; see the warnings above", len(failed), len(results))

		return
	}

	infof("downloaded %d files to %s", len(results), dataOutDir)
}
