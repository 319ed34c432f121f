// Command lineage-sim runs one cellular phylodynamic lineage simulation and
// writes the resulting Newick tree description to a file.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lineagecore/internal/blob"
	"lineagecore/internal/config"
	"lineagecore/internal/core"
	"lineagecore/pkg/lineage"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, stdout *os.File) error {
	fs := flag.NewFlagSet("lineage-sim", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "lineage.toml", "path to TOML configuration file (missing file uses defaults)")
		cells       = fs.Int("cells", 0, "total number of cells to simulate")
		cycleTime   = fs.Float64("cycle-time", 0, "uniform cell cycle time")
		mitoticA    = fs.Float64("mitotic-a", 0, "mitotic fraction parameter 'a'")
		mitoticB    = fs.Float64("mitotic-b", 0, "mitotic fraction parameter 'b'")
		founders    = fs.String("founders", "", "founder cell binary names (space or comma separated)")
		out         = fs.String("out", "", "output file for the Newick tree")
		seed        = fs.Uint64("seed", 0, "random seed; 0 draws from entropy")
		interactive = fs.Bool("interactive", false, "prompt for parameters on stdin")
		quiet       = fs.Bool("quiet", false, "suppress progress output")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	params := cfg.Params()
	outFile := cfg.Output.File

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["cells"] {
		params.TotalCells = *cells
	}
	if set["cycle-time"] {
		params.CycleTime = *cycleTime
	}
	if set["mitotic-a"] {
		params.MitoticA = *mitoticA
	}
	if set["mitotic-b"] {
		params.MitoticB = *mitoticB
	}
	if set["founders"] {
		params.Founders = splitFounders(*founders)
	}
	if set["out"] {
		outFile = *out
	}

	if *interactive {
		params, err = promptParams(stdin, stdout)
		if err != nil {
			return err
		}
	}

	if params.TotalCells < 1 {
		return fmt.Errorf("total cells must be at least 1, got %d", params.TotalCells)
	}

	store, err := core.OpenRunStore()
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	blobs, err := blob.Open(context.Background())
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	opts := []core.ServiceOption{core.WithMetricsRecorder(core.NewExpvarMetricsRecorder("lineage_sim"))}
	if *seed != 0 {
		opts = append(opts, core.WithRand(lineage.NewPCGSource(*seed)))
	}
	svc := core.NewService(store, blobs, opts...)

	if !*quiet {
		fmt.Fprintln(stdout, "\nGenerating cell lineage...")
	}
	report, err := svc.RunSimulation(context.Background(), params)
	if err != nil {
		return err
	}

	if !*quiet {
		fmt.Fprintln(stdout, "Saving results...")
	}
	if err := os.WriteFile(outFile, []byte(report.Newick+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}

	if !*quiet {
		fmt.Fprintf(stdout, "Simulation completed successfully! The results have been saved to '%s'\n", outFile)
		fmt.Fprintln(stdout, "You can visualize the results by uploading the .tree file to https://icytree.org/")
	}
	return nil
}

// promptParams reproduces the original interactive operator dialogue.
func promptParams(stdin *os.File, stdout *os.File) (lineage.Params, error) {
	r := bufio.NewReader(stdin)
	fmt.Fprintln(stdout, "Welcome to the Cellular Phylodynamic Lineage Simulation")
	fmt.Fprintln(stdout, "Please enter the following parameters:")

	var params lineage.Params

	line, err := prompt(r, stdout, "Total number of cells to simulate: ")
	if err != nil {
		return params, err
	}
	params.TotalCells, err = strconv.Atoi(line)
	if err != nil {
		return params, fmt.Errorf("invalid total cells %q: %w", line, err)
	}

	line, err = prompt(r, stdout, "Uniform cell cycle time: ")
	if err != nil {
		return params, err
	}
	params.CycleTime, err = strconv.ParseFloat(line, 64)
	if err != nil {
		return params, fmt.Errorf("invalid cycle time %q: %w", line, err)
	}

	line, err = prompt(r, stdout, "Mitotic fraction parameter 'a': ")
	if err != nil {
		return params, err
	}
	params.MitoticA, err = strconv.ParseFloat(line, 64)
	if err != nil {
		return params, fmt.Errorf("invalid parameter 'a' %q: %w", line, err)
	}

	line, err = prompt(r, stdout, "Mitotic fraction parameter 'b': ")
	if err != nil {
		return params, err
	}
	params.MitoticB, err = strconv.ParseFloat(line, 64)
	if err != nil {
		return params, fmt.Errorf("invalid parameter 'b' %q: %w", line, err)
	}

	line, err = prompt(r, stdout, "Founder cell binary names (space-separated): ")
	if err != nil {
		return params, err
	}
	params.Founders = splitFounders(line)

	return params, nil
}

func prompt(r *bufio.Reader, stdout *os.File, label string) (string, error) {
	fmt.Fprint(stdout, label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func splitFounders(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	var out []string
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
