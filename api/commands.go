package api

import (
	"context"
	"fmt"

	"github.com/wricardo/ghostmaze/game/service"
	"github.com/wricardo/ghostmaze/transport/websocket"
)

// CommandHandler lets websocket clients play their session
func CommandHandler(svc service.GameService) websocket.CommandHandler {
	return func(ctx context.Context, sessionID string, cmd websocket.Command) (any, error) {
		switch cmd.Action {
		case "move":
			return svc.Move(ctx, sessionID, cmd.Direction, cmd.Reset)
		case "bulk_move":
			return svc.BulkMove(ctx, sessionID, cmd.Moves, cmd.Reset)
		case "autopilot":
			return svc.Autopilot(ctx, sessionID, cmd.Steps)
		case "start":
			return svc.StartGame(ctx, sessionID)
		case "stop":
			return svc.StopGame(ctx, sessionID)
		case "reset":
			return svc.Reset(ctx, sessionID)
		case "state":
			return svc.GetGameState(ctx, sessionID)
		default:
			return nil, fmt.Errorf("unknown action %q", cmd.Action)
		}
	}
}
