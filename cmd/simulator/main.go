// Command simulator drives the floating-point pipeline discrete-event
// simulator from the command line: running a trace to a schedule file, or
// decoding a raw IEEE-754 bit pattern on its own.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ArpitPrd/fpsim/internal/binfloat"
	"github.com/ArpitPrd/fpsim/internal/config"
	"github.com/ArpitPrd/fpsim/internal/fpsim"
	"github.com/ArpitPrd/fpsim/internal/schedule"
	"github.com/ArpitPrd/fpsim/internal/trace"
)

var (
	configPath string
	format     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "simulator",
	Short: "Floating-point pipeline discrete-event simulator",
}

var runCmd = &cobra.Command{
	Use:   "run <input_trace> <output_file>",
	Short: "Run a trace through the pipeline and write its retirement schedule",
	Args:  cobra.ExactArgs(2),
	Run:   runSimulation,
}

var decode32Cmd = &cobra.Command{
	Use:   "decode32 <bitstring>",
	Short: "Reinterpret a 32-character '0'/'1' string as a float32",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := binfloat.Bin32ToFloat32(args[0])
		if err != nil {
			log.Fatalf("decode32: %v", err)
		}
		fmt.Println(f)
	},
}

var decode64Cmd = &cobra.Command{
	Use:   "decode64 <bitstring>",
	Short: "Reinterpret a 64-character '0'/'1' string as a float64",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := binfloat.Bin64ToFloat64(args[0])
		if err != nil {
			log.Fatalf("decode64: %v", err)
		}
		fmt.Println(f)
	},
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML run configuration")
	runCmd.Flags().StringVar(&format, "format", "", "output format: csv or json (overrides config)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every stage transition")

	rootCmd.AddCommand(runCmd, decode32Cmd, decode64Cmd)
}

func runSimulation(cmd *cobra.Command, args []string) {
	inputPath, outputPath := args[0], args[1]

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("simulator: %v", err)
		}
		cfg = loaded
	}
	if format != "" {
		cfg.Format = format
	}

	instrs, err := trace.ParseFile(inputPath)
	if err != nil {
		log.Fatalf("simulator: %v", err)
	}

	var opts []fpsim.EngineOption
	if verbose {
		opts = append(opts, fpsim.WithLogger(log.New(os.Stderr, "", log.LstdFlags)))
	}

	engine, err := fpsim.NewEngine(cfg.RegisterSeed, cfg.Latencies, opts...)
	if err != nil {
		log.Fatalf("simulator: %v", err)
	}

	engine.Load(instrs)
	rows := engine.Run()

	switch cfg.Format {
	case "json":
		err = schedule.WriteJSON(rows, outputPath)
	default:
		err = schedule.WriteCSV(rows, outputPath)
	}
	if err != nil {
		log.Fatalf("simulator: %v", err)
	}

	if engine.NaNTerminated() {
		log.Printf("simulator: run terminated early on a NaN result, %d pending event(s) discarded", engine.DiscardedEvents())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
