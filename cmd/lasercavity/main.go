package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/lukaszgryglicki/lasercavity/internal/lasercavity"
)

func main() {
	lasercavity.Debug = os.Getenv("DEBUG") != ""
	lasercavity.PNG = os.Getenv("PNG") != ""
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := "cavities/config.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := lasercavity.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
