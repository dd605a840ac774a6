// Package main provides the mltrain CLI for multi-label classifiers.
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/born-ml/multilabel/internal/config"
)

const version = "v0.1.0-dev"

func usage() {
	fmt.Fprintln(os.Stderr, "mltrain - multi-label classifier training")
	fmt.Fprintf(os.Stderr, "Version: %s\n\n", version)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  train      Train a model (mltrain train -config run.yaml)")
	fmt.Fprintln(os.Stderr, "  version    Show version")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("mltrain %s\n", version)
	case "train":
		if err := trainCommand(os.Args[2:]); err != nil {
			klog.Errorf("train: %v", err)
			klog.Flush()
			os.Exit(1)
		}
		klog.Flush()
	default:
		usage()
		os.Exit(2)
	}
}

// trainCommand parses the train flags, applies them over the YAML config and runs.
func trainCommand(args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	klog.InitFlags(fs)
	configPath := fs.String("config", "", "YAML run configuration (defaults to a synthetic problem)")
	epochs := fs.Int("epochs", 0, "Override the number of epochs")
	enableProfile := fs.Bool("profile", false, "Profile forward passes and print the last profile")
	checkpoint := fs.String("checkpoint", "", "Write the best weights to this SafeTensors file")
	history := fs.String("history", "", "Write histories to this file (.json or protobuf binary)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *epochs > 0 {
		cfg.Epochs = *epochs
	}
	if *enableProfile {
		cfg.Profile = true
	}
	if *checkpoint != "" {
		cfg.Output.Checkpoint = *checkpoint
	}
	if *history != "" {
		cfg.Output.History = *history
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	klog.V(1).InfoS("Resolved config", "path", *configPath, "epochs", cfg.Epochs,
		"source", cfg.Data.Source, "optimizer", cfg.Optimizer.Name, "scheduler", cfg.Scheduler.Name)

	return run(cfg, os.Stdout)
}
