// Command motionctl inspects, validates and renders vector animation
// documents.
//
// Usage:
//
//	motionctl info intro.json
//	motionctl validate --strict assets/*.json
//	motionctl render --frame 12 --background "#ffffff" -o frame.svg intro.json
//	motionctl bounds --samples 60 intro.json
//
// Settings can also come from a YAML file passed with --config:
//
//	log_level: debug
//	cache_policy: strong
//	cache_capacity: 64
//	workers: 4
//	samples: 30
//	background: "#202020"
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
