// Spellwalk walks a character around a large map with WASD and turns mouse
// strokes into spell effects: hold the left button to draw, release to cast
// a plasma over the stroke's bounding box, press Escape to abandon a stroke.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/phanxgames/spellwalk"
)

func main() {
	configPath := flag.String("config", "", "YAML scene config (defaults apply when empty)")
	debug := flag.Bool("debug", false, "enable debug logging")
	script := flag.String("script", "", "JSON test script to drive input; exits when done")
	watch := flag.Bool("watch", false, "reload -config when the file changes")
	flag.Parse()

	cfg := spellwalk.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = spellwalk.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *debug {
		cfg.Debug = true
	}

	scene, err := spellwalk.NewScene(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if *script != "" {
		data, err := os.ReadFile(*script)
		if err != nil {
			log.Fatalf("failed to read test script: %v", err)
		}
		runner, err := spellwalk.LoadTestScript(data)
		if err != nil {
			log.Fatal(err)
		}
		scene.SetTestRunner(runner)
	}

	if *watch {
		if *configPath == "" {
			log.Fatal("-watch needs -config")
		}
		if err := scene.WatchConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}

	if err := spellwalk.Run(scene, cfg.RunConfig()); err != nil {
		log.Fatal(err)
	}
}
