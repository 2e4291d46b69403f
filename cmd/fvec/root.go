package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/blobstore"
	"github.com/hupe1980/fvec/blobstore/minio"
	"github.com/hupe1980/fvec/blobstore/s3"
	"github.com/hupe1980/fvec/codec"
	"github.com/hupe1980/fvec/internal/config"
	"github.com/hupe1980/fvec/internal/source"
	"github.com/hupe1980/fvec/resource"
	"github.com/spf13/cobra"
)

// errInputsFailed makes the command exit with status 1 once every result
// has been printed.
var errInputsFailed = errors.New("one or more inputs failed")

// app is the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *fvec.Logger
	rc     *resource.Controller
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:          "fvec",
		Short:        "Compute statistics over multi-channel sample arrays",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML configuration file")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(newAlphaNormCmd(a), newInspectCmd(a))
	return cmd
}

// setup loads the configuration and applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	a.cfg = cfg
	return nil
}

// prepare finishes setup once subcommand flags are applied to cfg.
func (a *app) prepare(cmd *cobra.Command) error {
	if a.cfg.Resources.MaxWorkers == 0 {
		a.cfg.Resources.MaxWorkers = int64(runtime.GOMAXPROCS(0))
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	logger, err := a.cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger
	a.rc = a.cfg.Resources.Controller()
	return nil
}

// loader builds a source.Loader with stores for the schemes uris use.
func (a *app) loader(ctx context.Context, uris []string) (*source.Loader, error) {
	l := &source.Loader{
		Stores:    map[string]blobstore.Store{},
		Resources: a.rc,
		Codec:     a.cfg.JSONCodec(),
		Logger:    a.logger,
	}

	for _, uri := range uris {
		loc, err := source.Parse(uri)
		if err != nil {
			continue
		}
		if _, ok := l.Stores[loc.Scheme]; ok {
			continue
		}
		switch loc.Scheme {
		case "s3":
			var opts []s3.Option
			if a.cfg.S3.Region != "" {
				opts = append(opts, s3.WithRegion(a.cfg.S3.Region))
			}
			if a.cfg.S3.Endpoint != "" {
				opts = append(opts, s3.WithEndpoint(a.cfg.S3.Endpoint))
			}
			store, err := s3.New(ctx, "", opts...)
			if err != nil {
				return nil, err
			}
			l.Stores["s3"] = store
		case "minio":
			if a.cfg.MinIO.Endpoint == "" {
				continue
			}
			store, err := minio.New(minio.Config{
				Endpoint:  a.cfg.MinIO.Endpoint,
				AccessKey: a.cfg.MinIO.AccessKey,
				SecretKey: a.cfg.MinIO.SecretKey,
				Secure:    a.cfg.MinIO.Secure,
			})
			if err != nil {
				return nil, err
			}
			l.Stores["minio"] = store
		}
	}
	return l, nil
}

// result is one output line.
type result struct {
	Input       string  `json:"input"`
	Alpha       float32 `json:"alpha,omitempty"`
	Channels    int     `json:"channels,omitempty"`
	Length      int     `json:"length,omitempty"`
	Shape       []int   `json:"shape,omitempty"`
	DType       string  `json:"dtype,omitempty"`
	Path        string  `json:"path,omitempty"`
	Mapped      *bool   `json:"mapped,omitempty"`
	Format      string  `json:"format,omitempty"`
	Compression string  `json:"compression,omitempty"`
	Value       any     `json:"value,omitempty"`
	Error       string  `json:"error,omitempty"`
	Kind        string  `json:"kind,omitempty"`
}

func failed(input string, err error) result {
	kind := fvec.KindOf(err)
	if kind == "" {
		kind = "InputError"
	}
	return result{Input: input, Error: err.Error(), Kind: kind}
}

// number maps non-finite values to strings, which JSON cannot carry as numbers.
func number(x float64) any {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "+Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	default:
		return x
	}
}

// writeResults writes results as JSON lines and reports whether any failed.
func (a *app) writeResults(cmd *cobra.Command, results []result) error {
	var nfailed int
	lw := codec.NewLineWriter(cmd.OutOrStdout(), a.cfg.JSONCodec())
	for _, r := range results {
		if r.Error != "" {
			nfailed++
		}
		if err := lw.Write(r); err != nil {
			return err
		}
	}
	if nfailed > 0 {
		return fmt.Errorf("%w: %d of %d", errInputsFailed, nfailed, len(results))
	}
	return nil
}
