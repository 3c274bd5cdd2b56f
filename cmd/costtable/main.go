// Command costtable works with cost table files offline against a catalog
// JSON file.
//
// Usage:
//
//	costtable template -catalog catalog.json [-name NAME]
//	costtable import   -catalog catalog.json [-name NAME] [-json] table.csv
//	costtable cost     -catalog catalog.json -profile table.csv -team SLOTS [-opponent SLOTS] [-breakpoint N]
//
// SLOTS is a comma-separated list of CHAR:LEVEL[/CONE:RANK], for example
// "1305:0/23020:1,1102:2".
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/core"
	"github.com/JonMunkholm/costdraft/internal/engine"
	"github.com/JonMunkholm/costdraft/internal/logging"
	"github.com/JonMunkholm/costdraft/internal/preset"
	"github.com/JonMunkholm/costdraft/internal/tabular"
)

// cliOwner owns the in-memory presets created by the cost command.
const cliOwner = "cli"

var errUsage = errors.New("usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	slog.SetDefault(logging.New(stderr, "warn", "text"))

	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "template":
		err = runTemplate(args[1:], stdout, stderr)
	case "import":
		err = runImport(args[1:], stdout, stderr)
	case "cost":
		err = runCost(ctx, args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 2
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "%s: %v\n", args[0], err)
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(stderr, core.FormatUserError(err))
		}
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `usage: costtable <command> [flags]

commands:
  template  write a zero-filled cost table for the catalog
  import    check a cost table and write its normalized form
  cost      price a team under both rulesets`)
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func loadCatalog(path string) (*catalog.Snapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: -catalog is required", errUsage)
	}
	return catalog.FileSource{Path: path}.Fetch(context.Background())
}

func runTemplate(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("template", stderr)
	catalogPath := fs.String("catalog", "", "catalog JSON file")
	name := fs.String("name", "Template", "profile name written to the NAME row")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap, err := loadCatalog(*catalogPath)
	if err != nil {
		return err
	}
	return tabular.Template(stdout, snap, *name)
}

func runImport(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("import", stderr)
	catalogPath := fs.String("catalog", "", "catalog JSON file")
	name := fs.String("name", "", "profile name when the table has no NAME row")
	asJSON := fs.Bool("json", false, "print the summary as JSON instead of the normalized table")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: exactly one table file is required", errUsage)
	}

	snap, err := loadCatalog(*catalogPath)
	if err != nil {
		return err
	}
	res, err := importFile(fs.Arg(0), snap, *name)
	if err != nil {
		return err
	}

	sum := res.Summary(tabular.DefaultSummaryLimit)
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	printSummary(stderr, sum)
	return tabular.Export(stdout, snap, res.Profile)
}

func importFile(path string, snap *catalog.Snapshot, name string) (*tabular.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tabular.Import(f, snap, nil, tabular.Options{Name: name})
}

func printSummary(w io.Writer, s tabular.Summary) {
	fmt.Fprintf(w, "%s: %d characters, %d light cones updated", s.Name, s.CharactersUpdated, s.EquipmentUpdated)
	if s.IgnoredRows > 0 {
		fmt.Fprintf(w, ", %d rows ignored", s.IgnoredRows)
	}
	fmt.Fprintln(w)
	for _, warn := range s.UnresolvedCharacters {
		fmt.Fprintf(w, "  unknown character %q (row %d)\n", warn.Label, warn.Row)
	}
	if s.MoreCharacters > 0 {
		fmt.Fprintf(w, "  ... and %d more characters\n", s.MoreCharacters)
	}
	for _, warn := range s.UnresolvedEquipment {
		fmt.Fprintf(w, "  unknown light cone %q (row %d)\n", warn.Label, warn.Row)
	}
	if s.MoreEquipment > 0 {
		fmt.Fprintf(w, "  ... and %d more light cones\n", s.MoreEquipment)
	}
}

func runCost(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("cost", stderr)
	catalogPath := fs.String("catalog", "", "catalog JSON file")
	profilePath := fs.String("profile", "", "cost table used by both rulesets (default: all zeros)")
	team := fs.String("team", "", "team slots, CHAR:LEVEL[/CONE:RANK],...")
	opponent := fs.String("opponent", "", "opponent slots in the same form")
	breakpoint := fs.Int("breakpoint", engine.DefaultBreakpoint, "cost difference worth one cycle")
	asJSON := fs.Bool("json", false, "print the full result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	teamSlots, err := parseSlots(*team)
	if err != nil {
		return fmt.Errorf("-team: %w", err)
	}
	oppSlots, err := parseSlots(*opponent)
	if err != nil {
		return fmt.Errorf("-opponent: %w", err)
	}

	snap, err := loadCatalog(*catalogPath)
	if err != nil {
		return err
	}

	// Same facade as the server, backed by memory.
	svc := core.NewService(core.Options{
		Source:     catalog.StaticSource{Snapshot: snap},
		Presets:    preset.NewService(preset.NewMemoryStore(), preset.Policy{}),
		Breakpoint: *breakpoint,
	})
	if _, err := svc.RefreshCatalog(ctx); err != nil {
		return err
	}

	var profileID string
	if *profilePath != "" {
		f, err := os.Open(*profilePath)
		if err != nil {
			return err
		}
		out, err := svc.ImportTable(ctx, cliOwner, f, core.ImportOptions{Name: "profile", Save: true})
		f.Close()
		if err != nil {
			return err
		}
		if out.Result.HasWarnings() {
			printSummary(stderr, out.Result.Summary(tabular.DefaultSummaryLimit))
		}
		profileID = out.Record.ID
	}

	res, err := svc.TeamCost(ctx, cliOwner, core.TeamCostRequest{
		Team:       teamSlots,
		Opponent:   oppSlots,
		ProfileA:   profileID,
		ProfileB:   profileID,
		Breakpoint: *breakpoint,
	})
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printCost(stdout, snap, res)
}

func printCost(w io.Writer, snap *catalog.Snapshot, res core.TeamCostResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tCHARACTER\tLIGHT CONE\tA\tB")
	for i, a := range res.Team.A.Slots {
		b := res.Team.B.Slots[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1,
			characterLabel(snap, a.Slot), equipmentLabel(snap, a.Slot),
			tabular.FormatCost(a.Total), tabular.FormatCost(b.Total))
	}
	fmt.Fprintf(tw, "\tTOTAL\t\t%s\t%s\n", tabular.FormatCost(res.Team.A.Total), tabular.FormatCost(res.Team.B.Total))
	if res.Opponent != nil {
		fmt.Fprintf(tw, "\tOPPONENT\t\t%s\t%s\n", tabular.FormatCost(res.Opponent.A.Total), tabular.FormatCost(res.Opponent.B.Total))
		fmt.Fprintf(tw, "\tCYCLES (bp %d)\t\t%g\t%g\n", res.Breakpoint, res.CycleAdvantageA, res.CycleAdvantageB)
	}
	return tw.Flush()
}

func characterLabel(snap *catalog.Snapshot, s engine.Slot) string {
	if s.CharacterID == "" {
		return "-"
	}
	name := s.CharacterID
	if c, ok := snap.Character(s.CharacterID); ok {
		name = c.Name
	}
	return fmt.Sprintf("%s M%d", name, s.Level)
}

func equipmentLabel(snap *catalog.Snapshot, s engine.Slot) string {
	if s.EquipmentID == "" {
		return "-"
	}
	name := s.EquipmentID
	if e, ok := snap.Item(s.EquipmentID); ok {
		name = e.Name
	}
	return fmt.Sprintf("%s P%d", name, s.EquipmentLevel)
}
