package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"text/tabwriter"

	"github.com/ghanse/dlt-workshop/internal/app"
	"github.com/ghanse/dlt-workshop/internal/build"
	"github.com/ghanse/dlt-workshop/internal/config"
	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/ghanse/dlt-workshop/internal/infra/repos/runs"
	"github.com/ghanse/dlt-workshop/internal/infra/repos/specs"
	"github.com/ghanse/dlt-workshop/internal/logging"
	"github.com/ghanse/dlt-workshop/internal/namespace"
	"github.com/ghanse/dlt-workshop/internal/registry"
	"github.com/ghanse/dlt-workshop/internal/validation"
	"github.com/ghanse/dlt-workshop/internal/workshop"
	"github.com/ghanse/dlt-workshop/internal/workspace"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var cfgFile string

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "dlt-workshop",
		Short: "Provision a workshop workspace and generate its demo datasets",
	}

	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default is ./dlt-workshop.yaml)")
	pf.String("user", cfg.User, "Caller identity used to derive the namespace")
	pf.String("volumes-root", cfg.VolumesRoot, "Root directory for provisioned volumes")
	pf.String("runs-db", cfg.RunsDB, "Run history DSN (sqlite path or postgres URL)")
	pf.String("specs-dir", cfg.SpecsDir, "Directory of custom spec files")
	pf.Int("workers", cfg.Workers, "Generation workers per dataset")
	pf.String("log-level", cfg.LogLevel, "Log level")

	for _, key := range []string{"user", "volumes-root", "runs-db", "specs-dir", "workers", "log-level"} {
		_ = viper.BindPFlag(key, pf.Lookup(key))
	}

	rootCmd.AddCommand(setupCmd())
	rootCmd.AddCommand(provisionCmd())
	rootCmd.AddCommand(specCmd())
	rootCmd.AddCommand(runsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig layers an optional config file and DLT_* environment variables
// under the flags.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("dlt-workshop")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DLT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func resolveNamespace() (*namespace.Namespace, error) {
	cfg := config.Load()
	return namespace.Resolve(viper.GetString("user"), cfg.CatalogPrefix, cfg.Schema, cfg.Volume)
}

func setupCmd() *cobra.Command {
	var (
		seed    int64
		hasSeed bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision storage and generate all six workshop datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.NewLogger(viper.GetString("log-level"))

			runRepo := runs.NewRepository(viper.GetString("runs-db"))
			if err := runRepo.Init(); err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer runRepo.Close()

			provisioner := workspace.NewLocalProvisioner(viper.GetString("volumes-root"))
			builder := build.NewBuilder(registry.DefaultRuleRegistry(), viper.GetInt("workers"))
			service := app.NewSetupService(provisioner, builder, runRepo, logger)

			datasets := workshop.All()

			uiprogress.Start()
			bar := uiprogress.AddBar(len(datasets)).AppendCompleted().PrependElapsed()
			var current progressLabel
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return fmt.Sprintf("%-16s", current.Get())
			})

			req := &app.SetupRequest{
				Identity:      viper.GetString("user"),
				CatalogPrefix: cfg.CatalogPrefix,
				Schema:        cfg.Schema,
				Volume:        cfg.Volume,
				Specs:         datasets,
				Progress: func(dataset string) {
					current.Set(dataset)
					bar.Incr()
				},
			}
			if hasSeed {
				req.Seed = &seed
			}

			run, err := service.Run(req)
			uiprogress.Stop()
			if err != nil {
				return err
			}

			var stats domain.RunStats
			_ = json.Unmarshal(run.Stats, &stats)

			fmt.Printf("\nRun %s completed\n", run.ID)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATASET\tROWS\tPATH")
			for _, d := range stats.DatasetStats {
				fmt.Fprintf(w, "%s\t%d\t%s\n", d.Dataset, d.RowsWritten, d.Path)
			}
			w.Flush()
			fmt.Printf("Total rows: %d (%.2fs)\n", stats.TotalRows, stats.DurationSeconds)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for RNG (omit for a fresh seed per run)")
	cmd.Flags().Lookup("seed").NoOptDefVal = "0"
	cmd.PreRun = func(c *cobra.Command, args []string) {
		hasSeed = c.Flags().Changed("seed")
	}

	return cmd
}

func provisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create the namespace catalog, schema and volume only",
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := resolveNamespace()
			if err != nil {
				return err
			}

			p := workspace.NewLocalProvisioner(viper.GetString("volumes-root"))
			if err := p.EnsureCatalog(ns.Catalog); err != nil {
				return err
			}
			if err := p.EnsureSchema(ns.Catalog, ns.Schema); err != nil {
				return err
			}
			if err := p.EnsureVolume(ns.Catalog, ns.Schema, ns.Volume); err != nil {
				return err
			}

			fmt.Printf("Provisioned %s.%s.%s at %s\n",
				ns.Catalog, ns.Schema, ns.Volume, p.VolumePath(ns.Catalog, ns.Schema, ns.Volume))
			return nil
		},
	}
}

func specCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spec",
		Short: "Manage custom dataset specs",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List custom specs",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := specs.NewFileRepository(viper.GetString("specs-dir"))
			list, err := repo.List()
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tROWS\tCOLUMNS\tDELIMITER")
			for _, s := range list {
				fmt.Fprintf(w, "%s\t%d\t%d\t%q\n", s.Name, s.Rows, len(s.Columns), s.Delimiter)
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a spec, including the built-in workshop datasets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := findSpec(args[0])
			if err != nil {
				return err
			}

			data, _ := yaml.Marshal(spec)
			fmt.Println(string(data))
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <name|path>",
		Short: "Validate a spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := findSpec(args[0])
			if err != nil {
				return err
			}

			validator := validation.NewValidator(registry.DefaultRuleRegistry())
			if err := validator.ValidateSpec(spec); err != nil {
				fmt.Printf("Validation failed: %v\n", err)
				return err
			}

			fmt.Printf("Spec '%s' is valid\n", spec.Name)
			return nil
		},
	}

	generateCmd := &cobra.Command{
		Use:   "generate <name|path>",
		Short: "Generate a single dataset into the namespace volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			spec, err := findSpec(args[0])
			if err != nil {
				return err
			}

			logger := logging.NewLogger(viper.GetString("log-level"))
			runRepo := runs.NewRepository(viper.GetString("runs-db"))
			if err := runRepo.Init(); err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer runRepo.Close()

			provisioner := workspace.NewLocalProvisioner(viper.GetString("volumes-root"))
			builder := build.NewBuilder(registry.DefaultRuleRegistry(), viper.GetInt("workers"))
			service := app.NewSetupService(provisioner, builder, runRepo, logger)

			run, err := service.Run(&app.SetupRequest{
				Identity:      viper.GetString("user"),
				CatalogPrefix: cfg.CatalogPrefix,
				Schema:        cfg.Schema,
				Volume:        cfg.Volume,
				Specs:         []domain.TableSpec{*spec},
			})
			if err != nil {
				return err
			}

			fmt.Printf("Run %s completed: wrote %s (%d rows)\n", run.ID, spec.Name, spec.Rows)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, validateCmd, generateCmd)
	return cmd
}

// findSpec looks a name up among the built-in workshop datasets first, then
// the custom specs directory; a path is loaded directly.
func findSpec(nameOrPath string) (*domain.TableSpec, error) {
	for _, s := range workshop.All() {
		if s.Name == nameOrPath {
			spec := s
			return &spec, nil
		}
	}

	repo := specs.NewFileRepository(viper.GetString("specs-dir"))
	if _, err := os.Stat(nameOrPath); err == nil {
		return repo.GetByPath(nameOrPath)
	}
	return repo.Get(nameOrPath)
}

// progressLabel is written by the setup progress callback while the bar's
// render goroutine reads it.
type progressLabel struct {
	v atomic.Value
}

func (p *progressLabel) Set(s string) { p.v.Store(s) }

func (p *progressLabel) Get() string {
	s, _ := p.v.Load().(string)
	return s
}

// shortID truncates a run id for table output. Rows written by other tooling
// may carry ids shorter than a UUID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect run history",
	}

	var limit int
	var status string
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := runs.NewRepository(viper.GetString("runs-db"))
			if err := repo.Init(); err != nil {
				return err
			}
			defer repo.Close()

			list, err := repo.List(limit, status)
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATALOG\tSTATUS\tSTARTED")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					shortID(r.ID), r.Catalog, r.Status, r.StartedAt.Format("2006-01-02 15:04"))
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Limit results")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := runs.NewRepository(viper.GetString("runs-db"))
			if err := repo.Init(); err != nil {
				return err
			}
			defer repo.Close()

			run, err := repo.Get(args[0])
			if err != nil {
				return err
			}

			data, _ := yaml.Marshal(run)
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}
