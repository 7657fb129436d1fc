package main

import "C"
import (
	"log"
	"os"
	"runtime"

	"vulkan_triangle/config"
	"vulkan_triangle/renderer"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)
	log.Println("Starting vulkan triangle")
	log.Printf("Using GoLang: [%s]", runtime.Version())
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Printf("Failed to load configuration: %s", err)
		os.Exit(1)
	}

	core, err := renderer.NewCore(cfg)
	if err != nil {
		log.Printf("Failed to initialize renderer: %s", err)
		os.Exit(1)
	}
	if err := core.Loop(); err != nil {
		log.Printf("Frame loop aborted: %s", err)
		core.Destroy()
		os.Exit(1)
	}
	core.Destroy()
}
