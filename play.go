package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/ghostmaze/game/engine"
	"github.com/wricardo/ghostmaze/game/service"
	"github.com/wricardo/ghostmaze/observability"
)

const clearScreen = "\033[H\033[2J"

// runPlay lets the autopilot play one game and draws every move
func runPlay(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := observability.InitLogger("ghostmaze-play", settings.Server.LogLevel)

	svc, err := initializeServices(settings, logger)
	if err != nil {
		return err
	}
	defer svc.sessions.StopAll()

	summary, err := autoplay(ctx, svc.game, cmd.String("maze"), int(cmd.Int("steps")), cmd.Duration("delay"), os.Stdout)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, summary)
	return nil
}

// autoplay drives a new session with the autopilot until the game ends, the
// pilot gets stuck, maxSteps moves were made or ctx is done.
func autoplay(ctx context.Context, svc service.GameService, maze string, maxSteps int, delay time.Duration, out io.Writer) (string, error) {
	info, err := svc.CreateSession(ctx, maze)
	if err != nil {
		return "", err
	}
	defer svc.DeleteSession(context.Background(), info.ID)

	state := info.GameState
	moves := 0
	for moves < maxSteps {
		result, err := svc.Autopilot(ctx, info.ID, 1)
		if err != nil {
			return "", err
		}
		moves += result.MovesExecuted
		state = result.GameState
		draw(out, state, moves)

		if result.GameOver || result.MovesExecuted == 0 {
			break
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return summarize(state, moves), nil
			case <-time.After(delay):
			}
		}
	}
	return summarize(state, moves), nil
}

func draw(out io.Writer, state *engine.GameState, moves int) {
	if state == nil {
		return
	}
	var b strings.Builder
	if f, ok := out.(*os.File); ok && f == os.Stdout {
		b.WriteString(clearScreen)
	}
	for _, row := range state.Grid {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "moves %d  score %d  pellets %d/%d\n%s\n",
		moves, state.Score, state.RemainingPellets, state.TotalPellets, state.Message)
	io.WriteString(out, b.String())
}

func summarize(state *engine.GameState, moves int) string {
	if state == nil {
		return "no game played"
	}
	outcome := "unfinished"
	switch {
	case state.Victory:
		outcome = "victory"
	case state.GameOver:
		outcome = "defeat"
	}
	return fmt.Sprintf("%s after %d moves, score %d", outcome, moves, state.Score)
}
