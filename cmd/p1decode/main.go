// p1decode decodes P1 telegrams offline, from a file or pasted input.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kloodhu/p1_smart_meter/pkg/telegram"
)

var (
	rootCmd = &cobra.Command{
		Use:   "p1decode [file]",
		Short: "Decode DSMR P1 telegrams",
		Long:  "p1decode reads a P1 telegram from a file (or stdin) and prints the decoded fields as JSON.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := telegram.Options{SkipChecksum: skipChecksum}
			if len(args) == 0 {
				return runStdin(opts)
			}
			return runFile(opts, args[0])
		},
	}

	skipChecksum bool
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&skipChecksum, "skip-crc", false, "accept telegrams with a missing or wrong checksum")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func runFile(opts telegram.Options, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decode(opts, string(data))
}

// runStdin accumulates pasted lines and decodes a telegram every time
// its closing '!' line arrives.
func runStdin(opts telegram.Options) error {
	logrus.Info("p1decode interactive mode. Paste a telegram (Ctrl+D to exit).")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var buffer strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		buffer.WriteString(line)
		buffer.WriteString("\r\n")
		if strings.HasPrefix(strings.TrimSpace(line), "!") {
			if err := decode(opts, buffer.String()); err != nil {
				logrus.WithError(err).Error("failed to decode telegram")
			}
			buffer.Reset()
		}
	}
	return scanner.Err()
}

func decode(opts telegram.Options, raw string) error {
	reading, err := telegram.ParseWithOptions(raw, opts)
	if err != nil {
		return err
	}
	for _, lineErr := range reading.LineErrors {
		logrus.Warnf("undecoded line: %v", lineErr)
	}

	data, err := json.MarshalIndent(reading.Fields(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
