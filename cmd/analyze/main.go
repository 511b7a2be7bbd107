// Command analyze prints quick, human-readable facts about the maze
// configuration files in a directory: dimensions, pellets and ghosts, the
// wrap-around tunnels, dead ends, and how far the pellets and ghosts are
// from the start square. Files that do not validate are reported and make
// the command exit non-zero.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/engine"
	"github.com/wricardo/ghostmaze/game/navigation"
)

// Report summarizes one maze
type Report struct {
	File    string
	Name    string
	Width   int
	Height  int
	Pellets int
	Ghosts  []string

	// RowTunnels and ColTunnels count the rows and columns open at both edges
	RowTunnels int
	ColTunnels int
	DeadEnds   int
	Reachable  int

	// FarthestPellet is the path length from the start to the farthest pellet
	FarthestPellet int
	// NearestGhost is the shortest path any ghost needs to reach the start
	// square, or -1 when no ghost can
	NearestGhost int
}

func main() {
	app := &cli.Command{
		Name:      "analyze",
		Usage:     "Summarize maze configurations",
		ArgsUsage: "[dir or files...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				paths = []string{"configs"}
			}
			files, err := expand(paths)
			if err != nil {
				return err
			}
			if failed := run(files, os.Stdout); failed > 0 {
				return cli.Exit(fmt.Sprintf("%d invalid maze(s)", failed), 1)
			}
			return nil
		},
	}
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// expand turns directories into the JSON files they hold
func expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.json"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

// run analyzes every file and returns how many failed
func run(files []string, out io.Writer) int {
	failed := 0
	for _, file := range files {
		fmt.Fprintf(out, "\n=== Analyzing %s ===\n", filepath.Base(file))
		report, err := analyzeFile(file)
		if err != nil {
			fmt.Fprintf(out, "❌ %v\n", err)
			failed++
			continue
		}
		printReport(out, report)
	}
	return failed
}

func analyzeFile(path string) (*Report, error) {
	config, err := engine.LoadMapConfig(path)
	if err != nil {
		return nil, err
	}
	report, err := Analyze(config)
	if err != nil {
		return nil, err
	}
	report.File = filepath.Base(path)
	return report, nil
}

// Analyze builds the maze described by config and measures it
func Analyze(config *engine.MapConfig) (*Report, error) {
	eng, err := engine.NewEngine(config, engine.WithLogger(zerolog.Nop()))
	if err != nil {
		return nil, err
	}

	report := &Report{
		Name:         config.Name,
		Ghosts:       config.GhostNames(),
		NearestGhost: -1,
	}
	player := eng.Player()
	eng.Level().Inspect(func(b *board.Board) {
		report.Width, report.Height = b.Width(), b.Height()
		report.RowTunnels, report.ColTunnels = tunnels(b, player)

		start := player.Square()
		reachable := navigation.Reachable(start, player)
		report.Reachable = len(reachable)

		for _, sq := range reachable {
			if navigation.FindUnit(board.KindPellet, sq) != nil {
				report.Pellets++
				if d := navigation.Distance(start, sq, player); d > report.FarthestPellet {
					report.FarthestPellet = d
				}
			}
			if exits(sq, player) == 1 {
				report.DeadEnds++
			}
		}

		for _, g := range eng.Level().Ghosts() {
			d := navigation.Distance(g.Square(), start, g)
			if d >= 0 && (report.NearestGhost < 0 || d < report.NearestGhost) {
				report.NearestGhost = d
			}
		}
	})
	return report, nil
}

// exits counts the accessible neighbours of sq
func exits(sq *board.Square, u board.Unit) int {
	n := 0
	for _, d := range board.Directions {
		if sq.Neighbour(d).IsAccessibleTo(u) {
			n++
		}
	}
	return n
}

func tunnels(b *board.Board, u board.Unit) (rows, cols int) {
	for y := 0; y < b.Height(); y++ {
		if b.SquareAt(0, y).IsAccessibleTo(u) && b.SquareAt(b.Width()-1, y).IsAccessibleTo(u) {
			rows++
		}
	}
	for x := 0; x < b.Width(); x++ {
		if b.SquareAt(x, 0).IsAccessibleTo(u) && b.SquareAt(x, b.Height()-1).IsAccessibleTo(u) {
			cols++
		}
	}
	return rows, cols
}

func printReport(out io.Writer, r *Report) {
	ghosts := "none"
	if len(r.Ghosts) > 0 {
		ghosts = strings.Join(r.Ghosts, ", ")
	}
	fmt.Fprintf(out, "Name: %s\n", r.Name)
	fmt.Fprintf(out, "Grid: %d x %d\n", r.Width, r.Height)
	fmt.Fprintf(out, "Pellets: %d\n", r.Pellets)
	fmt.Fprintf(out, "Ghosts: %s\n", ghosts)
	fmt.Fprintf(out, "Tunnels: %d row(s), %d column(s)\n", r.RowTunnels, r.ColTunnels)
	fmt.Fprintf(out, "Reachable squares: %d, dead ends: %d\n", r.Reachable, r.DeadEnds)
	fmt.Fprintf(out, "Farthest pellet: %d moves from the start\n", r.FarthestPellet)

	switch {
	case r.NearestGhost < 0:
		fmt.Fprintf(out, "✅ No ghost can reach the start square\n")
	case r.NearestGhost <= 3:
		fmt.Fprintf(out, "⚠️  WARNING: a ghost is only %d moves from the start\n", r.NearestGhost)
	default:
		fmt.Fprintf(out, "Nearest ghost: %d moves from the start\n", r.NearestGhost)
	}
}
