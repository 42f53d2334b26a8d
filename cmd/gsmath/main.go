package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/mwidera/gsmath/internal/gsmath"
)

func main() {
	gsmath.Debug = os.Getenv("DEBUG") != ""
	gsmath.Serial = os.Getenv("SERIAL") != ""
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

	cfg := "configs/config.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := gsmath.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
