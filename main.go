package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/hartigcc/pbsat/internal/sat"
	"github.com/hartigcc/pbsat/optimize"
	"github.com/hartigcc/pbsat/parsers"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagOptimize = flag.Bool(
	"optimize",
	false,
	"run the PB optimizer instead of a plain satisfiability check; requires an objective file as the second argument",
)

var flagGzip = flag.Bool(
	"gzip",
	false,
	"the instance file is gzip-compressed",
)

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	cfg := &config{
		instanceFile: flag.Arg(0),
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
		gzipped:      *flagGzip,
		optimize:     *flagOptimize,
	}
	if cfg.optimize {
		if flag.NArg() < 2 || flag.Arg(1) == "" {
			return nil, fmt.Errorf("-optimize requires an objective file as the second argument")
		}
		cfg.objectiveFile = flag.Arg(1)
	}
	return cfg, nil
}

type config struct {
	instanceFile  string
	objectiveFile string
	memProfile    bool
	cpuProfile    bool
	gzipped       bool
	optimize      bool
}

// parseObjective reads a minimal OPB-flavored objective line of the form
//
//	min: 2 1 -3 2 0
//
// one term per coefficient/literal pair, zero-terminated like a DIMACS
// clause. The file may wrap that line in a DIMACS comment ("c min: ...")
// so it can sit alongside a CNF instance without confusing a strict DIMACS
// reader. Full OPB parsing (relational operators, named variables, multiple
// constraints) is out of scope; this is just enough to drive -optimize.
func parseObjective(filename string) (optimize.Objective, error) {
	f, err := os.Open(filename)
	if err != nil {
		return optimize.Objective{}, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "c ")
		line = strings.TrimPrefix(line, "c")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "min:")
		fields := strings.Fields(line)
		if len(fields)%2 != 1 || len(fields) == 0 {
			return optimize.Objective{}, fmt.Errorf("%s: malformed objective line %q", filename, scanner.Text())
		}
		if last, err := strconv.Atoi(fields[len(fields)-1]); err != nil || last != 0 {
			return optimize.Objective{}, fmt.Errorf("%s: objective line %q must be zero-terminated", filename, scanner.Text())
		}
		fields = fields[:len(fields)-1]

		var terms []sat.Term
		for i := 0; i < len(fields); i += 2 {
			coeff, err := strconv.Atoi(fields[i])
			if err != nil {
				return optimize.Objective{}, fmt.Errorf("%s: bad coefficient %q", filename, fields[i])
			}
			lit, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return optimize.Objective{}, fmt.Errorf("%s: bad literal %q", filename, fields[i+1])
			}
			if lit < 0 {
				terms = append(terms, sat.Term{Coeff: coeff, Lit: sat.NegativeLiteral(-lit - 1)})
			} else {
				terms = append(terms, sat.Term{Coeff: coeff, Lit: sat.PositiveLiteral(lit - 1)})
			}
		}
		return optimize.Objective{Terms: terms}, nil
	}
	if err := scanner.Err(); err != nil {
		return optimize.Objective{}, err
	}
	return optimize.Objective{}, fmt.Errorf("%s: no objective line found", filename)
}

func run(cfg *config) error {
	s := sat.NewDefaultSolver()
	if err := parsers.LoadDIMACS(cfg.instanceFile, cfg.gzipped, s); err != nil {
		return fmt.Errorf("could not parse instance: %s", err)
	}

	fmt.Printf("c variables:  %d\n", s.NumVars())
	fmt.Printf("c clauses:    %d\n", s.NumConstraints())

	ctx := context.Background()
	t := time.Now()

	if cfg.optimize {
		return runOptimize(ctx, s, cfg, t)
	}
	return runSolve(ctx, s, t)
}

func runSolve(ctx context.Context, s *sat.Solver, start time.Time) error {
	status := s.Solve(ctx)
	elapsed := time.Since(start)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", s.TotalConflicts, float64(s.TotalConflicts)/elapsed.Seconds())
	fmt.Printf("c status:     %s\n", status.String())

	return nil
}

func runOptimize(ctx context.Context, s *sat.Solver, cfg *config, start time.Time) error {
	obj, err := parseObjective(cfg.objectiveFile)
	if err != nil {
		return fmt.Errorf("could not parse objective: %s", err)
	}

	opt := optimize.NewOptimizer(s, optimize.Adaptive)
	opt.OnLowerBound = func(lb int) {
		fmt.Printf("c lower bound: %d\n", lb)
	}
	opt.OnImproved = func(_ []bool, value int) {
		fmt.Printf("c improved:    %d\n", value)
	}

	result := opt.Minimize(ctx, obj)
	elapsed := time.Since(start)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", s.TotalConflicts, float64(s.TotalConflicts)/elapsed.Seconds())
	fmt.Printf("c status:     %s\n", result.Status.String())
	if result.Status == optimize.StatusSat || result.Status == optimize.StatusOptimum {
		fmt.Printf("c value:      %d\n", result.Value)
	}

	return nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
		return
	}
}
