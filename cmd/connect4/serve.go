package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/games/connectfour"
	"github.com/vovakirdan/tui-connect4/internal/multiplayer"
	"github.com/vovakirdan/tui-connect4/internal/platform/tui"
	"github.com/vovakirdan/tui-connect4/internal/platform/wsserver"
)

var (
	flagSSHAddr      string
	flagWSAddr       string
	flagHostKey      string
	flagIdleTimeout  int
	flagTurnTimeout  time.Duration
	flagLobbyTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and websocket servers",
	Long: `Start an SSH server for terminal players and a websocket server for
browser or bot clients. Both share one lobby list, so an SSH player can host
a game that a websocket client joins.

Each SSH connection gets its own session with the full menu. Local results
and online match results are stored in the shared database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.connect4/host_key

Set --ssh "" or --ws "" to disable one of the servers.

Examples:
  connect4 serve                           # SSH on :23234, websocket on :8080
  connect4 serve --ssh :2222 --ws ""       # SSH only, on port 2222
  connect4 serve --turn-timeout 60s        # Forfeit players idle for a minute

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port), empty to disable")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", ":8080", "Websocket server address (host:port), empty to disable")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().DurationVar(&flagTurnTimeout, "turn-timeout", 0, "Time allowed per move in online matches (0 = unlimited)")
	serveCmd.Flags().DurationVar(&flagLobbyTimeout, "lobby-timeout", multiplayer.DefaultCoordinatorConfig().LobbyTimeout, "How long an unjoined lobby stays open")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if !flagChanged(cmd, "ssh") {
		flagSSHAddr = config.Or(env.SSHAddr, flagSSHAddr)
	}
	if !flagChanged(cmd, "ws") {
		flagWSAddr = config.Or(env.WSAddr, flagWSAddr)
	}
	if flagSSHAddr == "" && flagWSAddr == "" {
		return errors.New("nothing to serve: both --ssh and --ws are empty")
	}

	logger := newLogger()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.TurnTimeout = flagTurnTimeout
	coordCfg.LobbyTimeout = flagLobbyTimeout
	coordinator := multiplayer.NewCoordinator(coordCfg, connectfour.OnlineFactory(), multiplayer.NewSessionRegistry())
	coordinator.SetLogger(logger.WithPrefix("coordinator"))
	if store != nil {
		coordinator.SetResultSaver(store)
	}
	coordinator.Start()
	defer coordinator.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if flagSSHAddr != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = flagSSHAddr
		sshCfg.HostKeyPath = flagHostKey
		sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
		sshCfg.TickRate = flagFPS

		sshServer, err := tui.NewSSHServer(sshCfg, store, coordinator, logger)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return sshServer.Serve(ctx)
		})
	}

	if flagWSAddr != "" {
		wsCfg := wsserver.DefaultConfig()
		wsCfg.Address = flagWSAddr
		wsCfg.GameID = string(connectfour.ModeLocal)
		wsServer := wsserver.New(wsCfg, coordinator, logger)
		g.Go(func() error {
			return wsServer.Serve(ctx)
		})
	}

	logger.Info("serving", "ssh", flagSSHAddr, "ws", flagWSAddr, "db", flagDBPath)
	return g.Wait()
}
