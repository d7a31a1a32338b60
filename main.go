package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dwell/scene"
)

func main() {
	sceneName := flag.String("scene", scene.DefaultName, "scene file in scene/ or a path to one")
	watch := flag.Bool("watch", false, "reload the scene when it changes on disk")
	debug := flag.Bool("debug", false, "draw the debug overlay")
	strict := flag.Bool("strict", false, "exit on the first draw error instead of skipping the sprite")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game, err := NewGame(Options{
		Scene:  *sceneName,
		Watch:  *watch,
		Debug:  *debug,
		Strict: *strict,
	})
	if err != nil {
		log.Fatalf("dwell: %v", err)
	}

	s := game.Scene()
	ebiten.SetWindowSize(s.Width, s.Height)
	ebiten.SetWindowTitle(s.Title)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
