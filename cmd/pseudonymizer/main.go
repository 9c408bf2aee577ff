// Command pseudonymizer pseudonymizes Dutch medical dossiers.
//
// It detects personal data (names, BSN, IBAN, phone numbers, email
// addresses, postal codes, street addresses, birth dates, patient and
// policy numbers) and replaces every occurrence with a stable label.
// Calendar dates are rewritten relative to the incident date, so the
// clinical timeline survives while the actual dates disappear.
//
// Usage:
//
//	# Process a single dossier file
//	pseudonymizer process dossier_01.txt
//
//	# Anchor relative dates on a known incident date
//	pseudonymizer process dossier_01.txt --ongevalsdatum 13-05-2021
//
//	# Run the HTTP API
//	pseudonymizer serve
//
//	# Generate synthetic test dossiers
//	pseudonymizer generate -n 10 -o ./testdata
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dossier-pseudonymizer/internal/config"
	"dossier-pseudonymizer/internal/dossier"
	"dossier-pseudonymizer/internal/logger"
	"dossier-pseudonymizer/internal/metrics"
	"dossier-pseudonymizer/internal/pseudonymizer"
	"dossier-pseudonymizer/internal/server"
	"dossier-pseudonymizer/internal/stoplist"
	"dossier-pseudonymizer/internal/textprep"
)

var (
	ongevalsdatum string
	noRepair      bool
	genCount      int
	genOutDir     string
	genSeed       int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pseudonymizer",
		Short: "Pseudonymize Dutch medical dossiers",
		Long: `Pseudonymizer replaces personal data in Dutch medical dossiers with
stable labels and rewrites calendar dates relative to the incident date.

Repeated mentions of the same person or address get the same label, so
"Jan van der Berg" is [PERSOON_1] throughout one document. Labels are
scoped to a single document: the same name in the next document may get
a different number, and nothing is persisted between runs.`,
	}

	processCmd := &cobra.Command{
		Use:   "process <file>...",
		Short: "Pseudonymize one or more dossier files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runProcess,
	}
	processCmd.Flags().StringVar(&ongevalsdatum, "ongevalsdatum", "", "incident date (dd-mm-jjjj), auto-detected when omitted")
	processCmd.Flags().BoolVar(&noRepair, "no-ocr-repair", false, "skip OCR artifact repair")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pseudonymization HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic test dossiers",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 5, "number of dossiers")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", ".", "output directory")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed (0 = time-based)")

	rootCmd.AddCommand(processCmd, serveCmd, generateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New("ENGINE", cfg.LogLevel)

	var refDate *time.Time
	if ongevalsdatum != "" {
		d, err := pseudonymizer.ParseInputDate(ongevalsdatum)
		if err != nil {
			return err
		}
		refDate = &d
	}

	words := stoplist.Default()
	if cfg.StoplistPath != "" {
		if loaded, err := stoplist.Load(cfg.StoplistPath); err == nil {
			words = loaded
		} else {
			log.Warnf("stoplist_load", "%v, using built-in defaults", err)
		}
	}
	engine := pseudonymizer.New(pseudonymizer.Options{Stoplist: words, Log: log})

	for _, path := range args {
		if err := processFile(engine, cfg, path, refDate); err != nil {
			return err
		}
	}
	return nil
}

func processFile(engine *pseudonymizer.Engine, cfg *config.Config, path string, refDate *time.Time) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dossier: %w", err)
	}

	text := textprep.Decode(raw)
	if !noRepair && cfg.RepairOCR {
		text = textprep.NormalizeMedical(textprep.RepairOCR(text))
	}

	res := engine.Pseudonymize(text, refDate)

	out := outputPath(path)
	if err := os.WriteFile(out, []byte(res.PseudonymizedText), 0o600); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	fmt.Printf("Geschreven: %s\n", out)
	if res.IncidentDate != nil {
		fmt.Printf("Ongevalsdatum: %s\n", res.IncidentDate.Format("02-01-2006"))
	}
	fmt.Printf("Vervangingen: %d\n", res.TotalReplacements())
	for _, cat := range pseudonymizer.Categories() {
		if n := res.Statistics[cat]; n > 0 {
			fmt.Printf("  %-14s %d\n", cat, n)
		}
	}
	for _, warn := range res.Warnings {
		fmt.Printf("Let op: %s\n", warn)
	}
	return nil
}

// outputPath turns "dossier_01.txt" into "dossier_01_pseudoniem.txt".
func outputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_pseudoniem" + ext
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New("SERVER", cfg.LogLevel)

	m := metrics.New(nil)
	srv := server.New(cfg, log, m)

	// Hot-reload the stoplist on file changes, same swap as the
	// /stoplist/reload endpoint.
	if cfg.StoplistPath != "" {
		watcher, err := stoplist.Watch(cfg.StoplistPath, log, srv.SwapStoplist)
		if err != nil {
			log.Warnf("stoplist_watch", "%v, hot reload disabled", err)
		} else {
			defer watcher.Close()
		}
	}

	printBanner(cfg)
	return srv.ListenAndServe()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(genOutDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	gen := dossier.NewGenerator(genSeed)
	for i := 1; i <= genCount; i++ {
		doc := gen.Generate(i)
		path := filepath.Join(genOutDir, doc.ID+".txt")
		if err := os.WriteFile(path, []byte(doc.Text), 0o600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("Geschreven: %s (ongevalsdatum %s)\n", path, doc.IncidentDate.Format("02-01-2006"))
	}
	return nil
}

func printBanner(cfg *config.Config) {
	stoplistSrc := "ingebouwde lijst"
	if cfg.StoplistPath != "" {
		stoplistSrc = cfg.StoplistPath
	}
	auth := "uit"
	if cfg.APIToken != "" {
		auth = "bearer token"
	}

	fmt.Printf(`
╔══════════════════════════════════════════════════════╗
║        Dossier Pseudonymizer  (Go)                   ║
╚══════════════════════════════════════════════════════╝
  Adres           : %s:%d
  Log level       : %s
  Stoplijst       : %s
  OCR-herstel     : %v
  Max document    : %d bytes
  Authenticatie   : %s

  Check status:
    curl http://localhost:%d/status
`, cfg.BindAddress, cfg.ServerPort,
		cfg.LogLevel,
		stoplistSrc,
		cfg.RepairOCR, cfg.MaxDocumentBytes,
		auth,
		cfg.ServerPort)
}
