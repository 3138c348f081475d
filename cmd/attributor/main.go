package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/attributor/internal/config"
	"github.com/crimson-sun/attributor/internal/engine"
	"github.com/crimson-sun/attributor/internal/engine/trainer"
	"github.com/crimson-sun/attributor/internal/logging"
	"github.com/crimson-sun/attributor/internal/model"
	"github.com/crimson-sun/attributor/internal/registry"
)

var (
	cfgFile   string
	inputFile string
	limit     int
)

var rootCmd = &cobra.Command{
	Use:           "attributor",
	Short:         "attribute security incidents to intrusion sets",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model from a JSON array of intrusion-set bundles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(inputFile)
		if err != nil {
			return err
		}
		var bundles []json.RawMessage
		if err := json.Unmarshal(raw, &bundles); err != nil {
			return fmt.Errorf("parse %s: %w", inputFile, err)
		}
		corpus := make([][]byte, len(bundles))
		for i, b := range bundles {
			corpus[i] = b
		}

		history, err := registry.OpenHistory(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer history.Close()

		// Resume from the last recorded version, or start at the default.
		current := model.DefaultVersion
		if latest, err := history.Latest(); err == nil {
			if v, err := model.ParseVersion(latest.DBVersion); err == nil {
				current = v
			}
		}

		bump, err := model.ParseBump(cfg.Training.Bump)
		if err != nil {
			return err
		}
		t, err := trainer.New(corpus, current,
			trainer.WithSeed(cfg.Training.Seed),
			trainer.WithPerLabel(cfg.Training.PerLabel),
			trainer.WithTestFraction(cfg.Training.TestFraction),
			trainer.WithAlpha(cfg.Training.Alpha),
			trainer.WithGranularity(bump),
		)
		if err != nil {
			return err
		}
		m, f1, next, err := t.Retrain()
		if err != nil {
			return err
		}

		store := registry.NewFileStore(cfg.ModelDir)
		meta, err := store.Save(m, next, f1)
		if err != nil {
			return err
		}
		if err := history.Append(meta); err != nil {
			return err
		}
		slog.Info("model trained",
			"artifact_id", meta.ArtifactID,
			"db_version", meta.DBVersion,
			"f1_score", meta.F1Score,
			"labels", meta.LabelCount,
			"model_dir", cfg.ModelDir,
		)
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score one incident (JSON file or stdin) against the stored model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var input []byte
		if inputFile != "" {
			input, err = os.ReadFile(inputFile)
		} else {
			input, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		m, meta, err := registry.NewFileStore(cfg.ModelDir).Load()
		if err != nil {
			return err
		}
		version, err := model.ParseVersion(meta.DBVersion)
		if err != nil {
			return fmt.Errorf("stored metadata: %w", err)
		}

		result := engine.New(m, version).Predict(string(input))
		out, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent retrain records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		history, err := registry.OpenHistory(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer history.Close()

		metas, err := history.Recent(limit)
		if err != nil {
			return err
		}
		for _, meta := range metas {
			fmt.Printf("%s  %s  f1=%.4f  labels=%d  %s\n",
				meta.CreatedAt.Format("2006-01-02 15:04:05"),
				meta.DBVersion, meta.F1Score, meta.LabelCount, meta.ArtifactID)
		}
		return nil
	},
}

func loadConfig() (config.Config, error) {
	cfg := config.Load()
	if cfgFile != "" {
		var err error
		cfg, err = config.LoadFile(cfgFile)
		if err != nil {
			return config.Config{}, err
		}
	}
	logging.Init(cfg.Log.JSON, logging.ParseLevel(cfg.Log.Level))
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	trainCmd.Flags().StringVarP(&inputFile, "input", "f", "", "JSON array of intrusion-set bundles")
	if err := trainCmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}
	predictCmd.Flags().StringVarP(&inputFile, "input", "f", "", "incident JSON file (default: stdin)")
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of records to show")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
