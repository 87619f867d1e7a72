package main

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hartigcc/pbsat/internal/sat"
	"github.com/hartigcc/pbsat/parsers"
)

// This test suite verifies that the solver finds the exact set of models
// for each instance in a comprehensive set of DIMACS test cases, checked
// against models pre-computed by trusted reference solvers.

// testdataDir contains the test cases used to validate the solver. Each
// test case must be provided with two files:
//
//   - An instance file containing a valid DIMACS SAT/UNSAT instance with
//     the ".cnf" file extension.
//   - A models file containing the (possibly empty) set of the instance's
//     models. The file must contain one model per line using the same
//     literals as in the corresponding instance file, and must be named
//     after the instance file with an additional ".models" extension.
//
// The test directory may contain subdirectories.
var testdataDir = "testdata"

type testCase struct {
	instanceName string
	instanceFile string
	modelsFile   string
}

// listTestCases returns the test cases contained in the file tree rooted
// at dir.
func listTestCases(dir string) ([]testCase, error) {
	var testCases []testCase
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".cnf") {
			return nil // not an instance file
		}
		testCases = append(testCases, testCase{
			instanceName: d.Name(),
			instanceFile: path,
			modelsFile:   path + ".models",
		})
		return nil
	})
	return testCases, err
}

// toString returns model as a binary string, e.g. [true, false, false] ->
// "100".
func toString(model []bool) string {
	s := make([]byte, 0, len(model))
	for _, b := range model {
		if b {
			s = append(s, '1')
		} else {
			s = append(s, '0')
		}
	}
	return string(s)
}

func toSet(s [][]bool) map[string]struct{} {
	set := map[string]struct{}{}
	for _, m := range s {
		set[toString(m)] = struct{}{}
	}
	return set
}

// solveAll returns an unordered list of all of the instance's models, by
// repeatedly forbidding the last model found.
func solveAll(s *sat.Solver) [][]bool {
	ctx := context.Background()
	var models [][]bool
	for s.Solve(ctx) == sat.True {
		model := s.GetModel()
		models = append(models, model)

		blocking := make([]sat.Literal, len(model))
		for i, b := range model {
			if b {
				blocking[i] = sat.NegativeLiteral(i)
			} else {
				blocking[i] = sat.PositiveLiteral(i)
			}
		}
		if err := s.AddClause(blocking); err != nil {
			break
		}
	}
	return models
}

// TestSolveAll verifies that the solver finds all models of every instance
// under testdataDir.
func TestSolveAll(t *testing.T) {
	testCases, err := listTestCases(testdataDir)
	if err != nil {
		t.Fatalf("Error parsing test cases: %s", err)
	}

	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.instanceName, func(t *testing.T) {
			t.Parallel()

			want, err := parsers.ReadModels(tc.modelsFile)
			if err != nil {
				t.Errorf("Model parsing error: %s", err)
			}

			s := sat.NewDefaultSolver()
			if err := parsers.LoadDIMACS(tc.instanceFile, false, s); err != nil {
				t.Errorf("Instance parsing error: %s", err)
			}

			got := solveAll(s)

			if len(got) != len(want) {
				t.Errorf("Incorrect number of models: got %d, want %d", len(got), len(want))
			}
			if !cmp.Equal(toSet(got), toSet(want)) {
				t.Errorf("Model mismatch")
			}
		})
	}
}
