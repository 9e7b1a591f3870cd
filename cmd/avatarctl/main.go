// avatarctl builds, animates and exports avatars from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "export", "x":
		err = cmdExport(args)
	case "preset":
		err = cmdPreset(args)
	case "set":
		err = cmdSet(args)
	case "simulate", "gen":
		err = cmdSimulate(args)
	case "inspect":
		err = cmdInspect(args)
	case "info":
		err = cmdInfo(args)
	case "thumb":
		err = cmdThumb(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`avatarctl - procedural avatar builder and exporter

Usage:
  avatarctl <command> [options]

Commands:
  export [flags] <fbx|gltf>              Build the avatar and write an artifact
  preset init|show [file]                Create or print a parameter preset
  set [file] <section.field=value>...    Edit fields of a preset
  simulate [flags]                       Run a simulated generation with animation
  inspect <file.fbx>                     Print the vertex summary of an FBX file
  info [flags]                           Show parameter fields and scene stats
  thumb <image> [out.webp]               Make a WebP thumbnail of a reference image

Shared flags:
  -config <file>   Config file (default ./avatar-forge.yaml)
  -preset <file>   Parameter preset (default from config)
  -debug           Debug logging

Examples:
  avatarctl preset init me.yaml
  avatarctl set me.yaml hair.style=braids body.height=0.8 skin.tone=#8d5524
  avatarctl export -preset me.yaml -t 1.5 gltf
  avatarctl export -json -o out gltf
  avatarctl inspect out/avatar.fbx`)
}
