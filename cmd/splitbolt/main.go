package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/stormlang/internal/config"
	"github.com/danmuck/stormlang/internal/multilang"
)

func main() {
	configPath := flag.String("config", "", "worker config (toml); STORMLANG_* env overrides apply")
	flag.Parse()

	cfg, err := config.LoadWorkerConfig(*configPath, "splitbolt")
	if err != nil {
		fmt.Fprintf(os.Stderr, "splitbolt: %v\n", err)
		os.Exit(1)
	}
	os.Exit(multilang.Main(cfg, func(w *multilang.Worker) error {
		return w.RunBolt(&splitBolt{})
	}))
}
