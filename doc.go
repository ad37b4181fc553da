// Package spellwalk is a small top-down game for [Ebitengine]: a character
// walks an open map in eight directions while the player draws freehand
// strokes with the mouse, and each finished stroke casts a plasma effect
// over its bounding box.
//
// # Layers
//
// The game logic lives in two engine-free packages. [anim] derives the
// facing direction and walk-cycle frame from per-tick movement, and
// [gesture] samples a stroke at a throttled rate while keeping its bounding
// box current. [Session] ties them together behind one explicit call:
//
//	s := spellwalk.NewSession(mapRect, spawn, 5)
//	f := s.Tick(now, spellwalk.Input{Right: true})
//	// f.FrameName == "e_p1"
//
// [Scene] hosts a Session on Ebitengine: it reads the keyboard and mouse
// through an [InputSource], follows the player with a [Camera], draws the
// player frame from an [Atlas] and the stroke in progress, and turns each
// [Cast] into an [Effect].
//
// # Running
//
//	cfg, err := spellwalk.LoadConfig("spellwalk.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	scene, err := spellwalk.NewScene(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := spellwalk.Run(scene, cfg.RunConfig()); err != nil {
//		log.Fatal(err)
//	}
//
// Configs are YAML; see [Config] for the fields and [DefaultConfig] for the
// stock scene. [Scene.WatchConfig] reloads the file on change.
//
// # Scripted runs
//
// [LoadTestScript] reads a JSON list of steps (hold, release, press, move,
// up, click, drag, wait, screenshot) and [Scene.SetTestRunner] replays it
// frame by frame through a [ScriptedInput], writing labelled PNG
// screenshots along the way.
//
// [Ebitengine]: https://ebitengine.org
package spellwalk
