package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/arena/logging"
	"go.uber.org/zap"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	watch := flag.Bool("watch", false, "reload prefabs and scripts from disk when they change")
	flag.Parse()

	logger, err := logging.New(*debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("arena")

	game, err := NewGame(*debug, *watch, logger)
	if err != nil {
		logger.Fatal("create game", zap.Error(err))
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("run game", zap.Error(err))
	}
}
