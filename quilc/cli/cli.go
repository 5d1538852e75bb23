// Copyright 2021 Rigetti Computing
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	quil "github.com/jselig-rigetti/quil-rs"
	"github.com/jselig-rigetti/quil-rs/parser"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quilc [file.quil]",
	Short: "Parse Quil programs and print their canonical form",
	Long: `quilc reads a Quil program from a file or from stdin, parses it into
a typed instruction sequence, and prints the canonical rendering: memory
declarations first, then frame, waveform and calibration definitions, then
the program body. A malformed program reports a structured parse error and
exits non-zero.
`,
	Args: cobra.MaximumNArgs(1),
	Run:  runQuilc,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called exactly once by quilc.main().
func Execute(ctx context.Context) {
	if rootCmd.ExecuteContext(ctx) != nil {
		quil.Exit(2)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// persistent flags which will be global for the application
	rootCmd.PersistentFlags().String("logfile", "stderr", "URL of log output location")
	rootCmd.PersistentFlags().String("expression", "", "Parse a single expression instead of a program")
}

func runQuilc(cmd *cobra.Command, args []string) {
	if text, err := cmd.Flags().GetString("expression"); err == nil && text != "" {
		expression, err := parser.ParseExpressionString(text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "quilc: %v\n", err)
			quil.Exit(1)
		}
		fmt.Println(expression)
		return
	}
	source, err := readSource(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quilc: %v\n", err)
		quil.Exit(1)
	}
	program, err := parser.ParseProgram(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quilc: %v\n", err)
		quil.Exit(1)
	}
	tracer().Infof("parsed %d instructions", program.Len())
	fmt.Print(program)
}

func readSource(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}
