// Package config loads the desk scene configuration.
//
// Default returns the stock scene: nine monitors, ten status lights and
// the performance settings the core packages ship with. Load overlays a
// YAML file on the defaults and validates the result:
//
//	cfg, err := config.Load("desk.yaml")
//	if err != nil {
//		return err
//	}
//	lib, err := cfg.Library()
//
// The mesh manifest names the templates of the desk model with their
// bounds. The stock manifest carries placeholder panel bounds; a host that
// loads the real model should replace them with the measured ones.
package config
