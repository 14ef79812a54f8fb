// Package config loads and caches Planchís game presets.
//
// Presets are JSON files in the configs directory, one per file, named by
// their config ID (the file name without ".json"):
//
//	{
//	  "name": "Classic",
//	  "description": "Four players, seat 1 human",
//	  "active_players": [0, 1, 2, 3],
//	  "human_players": [0],
//	  "block_immune_landing": false,
//	  "seed": 0
//	}
//
// Seats are numbered 0..3 (green, blue, red, yellow). A preset lists two
// or four active seats; seats not listed in human_players are played by
// the built-in policy. A non-zero seed makes the dice reproducible.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal().Err(err).Send()
//	}
//
//	duel, err := manager.LoadConfig("duel")
//	def := manager.GetDefault() // classic.json, or the built-in default
//	infos, err := manager.ListConfigs()
//
// Every preset goes through engine.ValidateGameConfig on load and save.
// Loaded presets are cached until RefreshCache is called.
package config
