package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/config"
	"chosenoffset.com/tabletop/internal/game"
	"chosenoffset.com/tabletop/internal/input"
	"chosenoffset.com/tabletop/internal/logger"
	ebitenrender "chosenoffset.com/tabletop/internal/render/ebiten"
	"chosenoffset.com/tabletop/internal/session"
	"chosenoffset.com/tabletop/internal/world/mapdata"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	state := game.New(game.OptionsFromConfig(cfg))

	// Unit events go to in-process subscribers and the log; events from other
	// authors on the broadcaster come back into the table
	broadcaster := session.NewBroadcaster()
	defer broadcaster.Close()
	state.Publisher = session.Fanout(broadcaster, session.NewLogPublisher())
	if events, err := broadcaster.Subscribe(cfg.Session.AuthorID); err != nil {
		logger.Warn("Unit sync disabled", zap.Error(err))
	} else {
		state.Listen(events)
	}

	mapPath := resolveMapPath(cfg.Map.Path)
	terrain := cfg.Map.Terrain
	if mapPath != "" {
		md, err := mapdata.Load(mapPath)
		if err != nil {
			logger.Warn("Map not loaded, starting with an empty table", zap.Error(err))
		} else {
			state.ReplaceMap(md)
			if terrain == "" {
				terrain = md.TerrainPath(mapPath)
			}
			logger.Info("Map loaded",
				zap.String("path", mapPath),
				zap.Int("walls", len(md.Walls)),
				zap.Int("doors", len(md.Doors)),
				zap.Int("lights", len(md.Lights)))
		}
	}
	if terrain != "" {
		state.LoadTerrain(terrain)
	}

	// Create the game manager
	gameManager := game.NewManager(state, renderer, inputMgr, cfg.Window.Width, cfg.Window.Height)
	gameManager.SetInputHandler(input.NewHandler(state, inputMgr, gameManager.Viewport))
	defer gameManager.Close()

	// Set up the window
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(cfg.Window.Resizable)

	logger.Info("Starting tabletop", zap.Bool("debug", cfg.Debug), zap.String("fog", cfg.Fog.Policy))
	if err := engine.RunGame(gameManager); err != nil {
		logger.Error("Game loop exited", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// resolveMapPath returns path itself, or the first map in it when path is a
// directory
func resolveMapPath(path string) string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path
	}

	maps, err := mapdata.Scan(path)
	if err != nil {
		logger.Warn("Failed to scan map directory", zap.String("dir", path), zap.Error(err))
		return ""
	}
	if len(maps) == 0 {
		logger.Warn("No maps found", zap.String("dir", path))
		return ""
	}
	for _, m := range maps {
		logger.Debug("Found map", zap.String("name", m.Name), zap.String("terrain", m.Terrain))
	}
	return maps[0].Path
}
