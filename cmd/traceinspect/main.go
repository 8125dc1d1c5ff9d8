// Command traceinspect loads a line-delimited JSON fixture of
// pre-parsed trace events into a TraceStorage, validates it, and
// prints a row-count summary. It is a debug aid, not the binary trace
// parser, SQL query engine, or JSON exporter that consume the storage
// core in production.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.skia.org/infra/go/sklog"

	"github.com/zakerinasab/perfetto/storage"
)

var traceName string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traceinspect <fixture.jsonl>",
		Short: "Load a pre-parsed trace fixture and report storage-core stats",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().StringVar(&traceName, "trace-name", "fixture", "name tag applied to this trace's stats counters")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening fixture %s: %w", path, err)
	}
	defer f.Close()

	s := storage.New(traceName)
	count, err := loadFixture(s, f)
	if err != nil {
		return fmt.Errorf("loading fixture %s: %w", path, err)
	}
	sklog.Infof("traceinspect: applied %d events from %s", count, path)

	if err := s.Validate(); err != nil {
		sklog.Warningf("traceinspect: storage failed validation: %v", err)
		fmt.Fprintf(cmd.OutOrStdout(), "VALIDATION FAILED:\n%v\n\n", err)
	}

	summary := s.Summarize()
	fmt.Fprintf(cmd.OutOrStdout(), "events applied:   %d\n", count)
	fmt.Fprintf(cmd.OutOrStdout(), "threads:          %d\n", summary.Threads)
	fmt.Fprintf(cmd.OutOrStdout(), "processes:        %d\n", summary.Processes)
	fmt.Fprintf(cmd.OutOrStdout(), "tracks:           %d\n", summary.Tracks)
	fmt.Fprintf(cmd.OutOrStdout(), "slices:           %d\n", summary.Slices)
	fmt.Fprintf(cmd.OutOrStdout(), "counters:         %d\n", summary.Counters)
	fmt.Fprintf(cmd.OutOrStdout(), "instants:         %d\n", summary.Instants)
	fmt.Fprintf(cmd.OutOrStdout(), "raw events:       %d\n", summary.RawEvents)
	fmt.Fprintf(cmd.OutOrStdout(), "metadata rows:    %d\n", summary.Metadata)
	fmt.Fprintf(cmd.OutOrStdout(), "arg sets:         %d\n", summary.ArgSets)
	fmt.Fprintf(cmd.OutOrStdout(), "args:             %d\n", summary.Args)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		sklog.Errorf("traceinspect: %v", err)
		os.Exit(1)
	}
}
